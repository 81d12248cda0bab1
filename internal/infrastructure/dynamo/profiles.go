package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/go-registration-api/internal/domain"
)

// ProfileRepo provides typed DynamoDB operations for the user profiles table.
// PK: email. Every write is conditional so concurrent requests for the same
// email are serialized by DynamoDB rather than by the application.
type ProfileRepo struct {
	client    *dynamodb.Client
	tableName string
	now       func() time.Time
}

func NewProfileRepo(client *dynamodb.Client, tableName string) *ProfileRepo {
	return &ProfileRepo{client: client, tableName: tableName, now: time.Now}
}

// Create inserts p only if no profile exists for p.Email.
func (r *ProfileRepo) Create(ctx context.Context, p *domain.UserProfile) error {
	in, err := createInput(r.tableName, p)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, in)
	return conditionFailed(err, "profile already exists")
}

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("profile not found: %w", domain.ErrNotFound)
	}
	var p domain.UserProfile
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

// MarkVerified sets verified and removes the OTP fields, provided the profile is
// still unverified and still holds code. Otherwise it returns domain.ErrConflict.
func (r *ProfileRepo) MarkVerified(ctx context.Context, email, code string) error {
	in, err := markVerifiedInput(r.tableName, email, code, r.now().UTC())
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, in)
	return conditionFailed(err, "profile not pending verification")
}

// ReplaceOTP overwrites the pending code of an existing unverified profile.
func (r *ProfileRepo) ReplaceOTP(ctx context.Context, email, code string, expires time.Time) error {
	in, err := replaceOTPInput(r.tableName, email, code, expires, r.now().UTC())
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, in)
	return conditionFailed(err, "profile missing or already verified")
}

func createInput(table string, p *domain.UserProfile) (*dynamodb.PutItemInput, error) {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	return &dynamodb.PutItemInput{
		TableName:                aws.String(table),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldEmail},
	}, nil
}

func markVerifiedInput(table, email, code string, now time.Time) (*dynamodb.UpdateItemInput, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldVerified:  true,
		fieldUpdatedAt: now,
	}, fieldOTP, fieldOTPExpires)
	if err != nil {
		return nil, err
	}
	ue.withCondition(
		map[string]string{"#pk": fieldEmail, "#ver": fieldVerified, "#code": fieldOTP},
		map[string]types.AttributeValue{
			":unverified": &types.AttributeValueMemberBOOL{Value: false},
			":code":       &types.AttributeValueMemberS{Value: code},
		},
	)
	return &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       strKey(fieldEmail, email),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk) AND #ver = :unverified AND #code = :code"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	}, nil
}

func replaceOTPInput(table, email, code string, expires, now time.Time) (*dynamodb.UpdateItemInput, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldOTP:        code,
		fieldOTPExpires: expires,
		fieldUpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}
	ue.withCondition(
		map[string]string{"#pk": fieldEmail, "#ver": fieldVerified},
		map[string]types.AttributeValue{":unverified": &types.AttributeValueMemberBOOL{Value: false}},
	)
	return &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       strKey(fieldEmail, email),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk) AND #ver = :unverified"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	}, nil
}
