package kv

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Dynamo stores entries in a single DynamoDB table keyed by cache_key, with
// native TTL on the expires_at attribute. DynamoDB evicts expired items with
// a lag of up to 48h, so expiry is double-checked on every read.
type Dynamo struct {
	client    *dynamodb.Client
	tableName string
	now       func() time.Time
}

func NewDynamo(client *dynamodb.Client, tableName string) *Dynamo {
	return &Dynamo{client: client, tableName: tableName, now: time.Now}
}

func (d *Dynamo) Get(ctx context.Context, key string) (string, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       d.key(key),
	})
	if err != nil {
		return "", fmt.Errorf("dynamo get %s: %w", key, err)
	}
	if out.Item == nil || d.expired(ctx, key, out.Item) {
		return "", ErrNotFound
	}
	if v, ok := out.Item["v"].(*types.AttributeValueMemberS); ok {
		return v.Value, nil
	}
	// Counters written by Increment live in the "n" number attribute.
	if n, ok := out.Item["n"].(*types.AttributeValueMemberN); ok {
		return n.Value, nil
	}
	return "", fmt.Errorf("dynamo get %s: missing value attribute", key)
}

func (d *Dynamo) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	item := map[string]types.AttributeValue{
		"cache_key": &types.AttributeValueMemberS{Value: key},
		"v":         &types.AttributeValueMemberS{Value: value},
	}
	if ttl > 0 {
		exp := d.now().Add(ttl).Unix()
		item["expires_at"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(exp, 10)}
	}
	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamo put %s: %w", key, err)
	}
	return nil
}

func (d *Dynamo) Delete(ctx context.Context, key string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       d.key(key),
	})
	if err != nil {
		return fmt.Errorf("dynamo delete %s: %w", key, err)
	}
	return nil
}

func (d *Dynamo) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	exp := d.now().Add(ttl).Unix()
	out, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.tableName),
		Key:              d.key(key),
		UpdateExpression: aws.String("ADD n :one SET expires_at = if_not_exists(expires_at, :exp)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":exp": &types.AttributeValueMemberN{Value: strconv.FormatInt(exp, 10)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return 0, fmt.Errorf("dynamo incr %s: %w", key, err)
	}

	// A counter whose window expired but was not yet evicted restarts fresh.
	if d.expired(ctx, key, out.Attributes) {
		_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(d.tableName),
			Item: map[string]types.AttributeValue{
				"cache_key":  &types.AttributeValueMemberS{Value: key},
				"n":          &types.AttributeValueMemberN{Value: "1"},
				"expires_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(d.now().Add(ttl).Unix(), 10)},
			},
		})
		if err != nil {
			return 0, fmt.Errorf("dynamo incr %s: %w", key, err)
		}
		return 1, nil
	}

	n, ok := out.Attributes["n"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("dynamo incr %s: missing counter attribute", key)
	}
	return strconv.ParseInt(n.Value, 10, 64)
}

func (d *Dynamo) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"cache_key": &types.AttributeValueMemberS{Value: key},
	}
}

// expired reports whether the item's expires_at has passed, deleting the
// stale item best-effort when it has.
func (d *Dynamo) expired(ctx context.Context, key string, item map[string]types.AttributeValue) bool {
	attr, ok := item["expires_at"].(*types.AttributeValueMemberN)
	if !ok {
		return false
	}
	exp, err := strconv.ParseInt(attr.Value, 10, 64)
	if err != nil || exp > d.now().Unix() {
		return false
	}
	if err := d.Delete(ctx, key); err != nil {
		slog.Warn("failed to delete expired cache item", "key", key, "err", err)
	}
	return true
}
