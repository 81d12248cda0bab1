package dynamo

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/go-registration-api/internal/domain"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// updateExpr is a rendered UpdateExpression with its placeholder maps.
type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr renders SET assignments for updates and a REMOVE clause for remove.
// Keys are sorted so the same input always yields the same expression.
func buildUpdateExpr(updates map[string]interface{}, remove ...string) (updateExpr, error) {
	ue := updateExpr{
		Names:  make(map[string]string),
		Values: make(map[string]types.AttributeValue),
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sets, removes []string
	i := 0
	for _, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(updates[k])
		if err != nil {
			return updateExpr{}, fmt.Errorf("marshal field %s: %w", k, err)
		}
		ue.Names[nameKey] = k
		ue.Values[valueKey] = av
		sets = append(sets, fmt.Sprintf("%s = %s", nameKey, valueKey))
		i++
	}
	for _, k := range remove {
		nameKey := fmt.Sprintf("#f%d", i)
		ue.Names[nameKey] = k
		removes = append(removes, nameKey)
		i++
	}
	if i == 0 {
		return updateExpr{}, fmt.Errorf("no fields to update")
	}

	var parts []string
	if len(sets) > 0 {
		parts = append(parts, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		parts = append(parts, "REMOVE "+strings.Join(removes, ", "))
	}
	ue.Expr = strings.Join(parts, " ")
	if len(ue.Values) == 0 {
		ue.Values = nil
	}
	return ue, nil
}

// withCondition merges a condition's placeholders into the update's maps.
// Condition placeholders must not collide with the #fN / :vN ones.
func (ue *updateExpr) withCondition(names map[string]string, values map[string]types.AttributeValue) {
	for k, v := range names {
		ue.Names[k] = v
	}
	if len(values) > 0 && ue.Values == nil {
		ue.Values = make(map[string]types.AttributeValue, len(values))
	}
	for k, v := range values {
		ue.Values[k] = v
	}
}

// conditionFailed maps a failed ConditionExpression to domain.ErrConflict.
func conditionFailed(err error, msg string) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("%s: %w", msg, domain.ErrConflict)
	}
	return err
}
