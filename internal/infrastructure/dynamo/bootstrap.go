package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

// Bootstrap creates the profiles table if it doesn't already exist.
// Safe to call on every startup.
func Bootstrap(ctx context.Context, client *dynamodb.Client, profilesTable string, log logrus.FieldLogger) {
	createTable(ctx, client, log, profilesTableInput(profilesTable))
}

// profilesTableInput keys the table by email so uniqueness is the primary key itself.
func profilesTableInput(name string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(fieldEmail), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(fieldEmail), KeyType: types.KeyTypeHash},
		},
	}
}

func createTable(ctx context.Context, client *dynamodb.Client, log logrus.FieldLogger, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		// ResourceInUseException: the table already exists.
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			log.WithFields(logrus.Fields{"table": *input.TableName, "error": err.Error()}).Warn("could not create table")
		}
		return
	}
	log.WithField("table", *input.TableName).Info("created table")
}
