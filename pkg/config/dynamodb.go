package config

import (
	"context"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrMissingInputs is returned when a required input is absent from the configuration table.
var ErrMissingInputs = errors.New("required inputs missing from configuration table")

type configItem struct {
	Key   string      `dynamodbav:"key"`
	Value interface{} `dynamodbav:"value"`
}

// DynamoDBLoader reads the deployment configuration table.
type DynamoDBLoader struct {
	client dynamodb.ScanAPIClient
}

var _ dynamodb.ScanAPIClient = (*dynamodb.Client)(nil)

func NewDynamoDBLoader(client dynamodb.ScanAPIClient) *DynamoDBLoader {
	return &DynamoDBLoader{client: client}
}

// Load scans table and returns every key/value pair in it. Each of requiredInputs must be
// present, otherwise nothing is returned.
func (l *DynamoDBLoader) Load(ctx context.Context, table string, requiredInputs []string) (Values, error) {
	log := zap.S().With("table", table)
	values := make(Values)

	paginator := dynamodb.NewScanPaginator(l.client, &dynamodb.ScanInput{
		TableName:      aws.String(table),
		ConsistentRead: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "could not scan configuration table %s", table)
		}
		for _, item := range page.Items {
			var ci configItem
			if err := attributevalue.UnmarshalMap(item, &ci); err != nil {
				return nil, errors.Wrapf(err, "could not decode item of configuration table %s", table)
			}
			if ci.Key == "" {
				log.Debug("skipping item without key")
				continue
			}
			values[ci.Key] = ci.Value
		}
	}

	var missing []string
	for _, input := range requiredInputs {
		if _, ok := values[input]; !ok {
			missing = append(missing, input)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.Wrapf(ErrMissingInputs, "%s: %s", table, strings.Join(missing, ", "))
	}
	log.Debugw("loaded configuration", "count", len(values))
	return values, nil
}
