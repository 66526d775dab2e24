package kv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeItem is an item on the DynamoDB wire format: attr -> {"S"|"N": value}.
type fakeItem = map[string]map[string]string

// fakeTable emulates just enough of the DynamoDB JSON API for the cache
// backend: GetItem, PutItem, DeleteItem, and the fixed ADD-counter
// UpdateItem expression used by Increment.
type fakeTable struct {
	mu    sync.Mutex
	items map[string]fakeItem
}

func newFakeDynamo(t *testing.T) (*dynamodb.Client, *fakeTable) {
	t.Helper()
	tbl := &fakeTable{items: make(map[string]fakeItem)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Item                      fakeItem
			Key                       fakeItem
			ExpressionAttributeValues fakeItem
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/x-amz-json-1.0")

		tbl.mu.Lock()
		defer tbl.mu.Unlock()
		switch target := r.Header.Get("X-Amz-Target"); {
		case strings.HasSuffix(target, ".GetItem"):
			if item, ok := tbl.items[req.Key["cache_key"]["S"]]; ok {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"Item": item})
				return
			}
			_, _ = w.Write([]byte("{}"))
		case strings.HasSuffix(target, ".PutItem"):
			tbl.items[req.Item["cache_key"]["S"]] = req.Item
			_, _ = w.Write([]byte("{}"))
		case strings.HasSuffix(target, ".DeleteItem"):
			delete(tbl.items, req.Key["cache_key"]["S"])
			_, _ = w.Write([]byte("{}"))
		case strings.HasSuffix(target, ".UpdateItem"):
			k := req.Key["cache_key"]["S"]
			item, ok := tbl.items[k]
			if !ok {
				item = fakeItem{"cache_key": {"S": k}}
				tbl.items[k] = item
			}
			n, _ := strconv.ParseInt(item["n"]["N"], 10, 64)
			one, _ := strconv.ParseInt(req.ExpressionAttributeValues[":one"]["N"], 10, 64)
			item["n"] = map[string]string{"N": strconv.FormatInt(n+one, 10)}
			if _, exists := item["expires_at"]; !exists {
				item["expires_at"] = req.ExpressionAttributeValues[":exp"]
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"Attributes": item})
		default:
			t.Errorf("unexpected DynamoDB target %q", target)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)

	client := dynamodb.New(dynamodb.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		Credentials:  credentials.NewStaticCredentialsProvider("test", "test", ""),
		HTTPClient:   srv.Client(),
	})
	return client, tbl
}

func TestDynamo_SetGetDelete(t *testing.T) {
	client, _ := newFakeDynamo(t)
	d := NewDynamo(client, "auth_cache")
	ctx := context.Background()

	require.NoError(t, d.Set(ctx, "k", "payload", time.Minute))
	v, err := d.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "payload", v)

	require.NoError(t, d.Delete(ctx, "k"))
	_, err = d.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDynamo_GetMissing(t *testing.T) {
	client, _ := newFakeDynamo(t)
	d := NewDynamo(client, "auth_cache")

	_, err := d.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDynamo_IncrementThenGet(t *testing.T) {
	client, _ := newFakeDynamo(t)
	d := NewDynamo(client, "auth_cache")
	ctx := context.Background()

	n, err := d.Increment(ctx, "ctr", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = d.Increment(ctx, "ctr", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Counters must read back through Get so quota checks can see them.
	v, err := d.Get(ctx, "ctr")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestDynamo_GetDiscardsExpired(t *testing.T) {
	client, tbl := newFakeDynamo(t)
	d := NewDynamo(client, "auth_cache")
	now := time.Now()
	d.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, d.Set(ctx, "k", "payload", time.Minute))

	// Exactly at the expiry instant the entry is already gone.
	now = now.Add(time.Minute)
	_, err := d.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	tbl.mu.Lock()
	_, stillThere := tbl.items["k"]
	tbl.mu.Unlock()
	assert.False(t, stillThere, "expired item is deleted on observation")
}

func TestDynamo_IncrementRestartsExpiredWindow(t *testing.T) {
	client, _ := newFakeDynamo(t)
	d := NewDynamo(client, "auth_cache")
	now := time.Now()
	d.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := d.Increment(ctx, "ctr", time.Minute)
		require.NoError(t, err)
	}

	now = now.Add(2 * time.Minute)
	n, err := d.Increment(ctx, "ctr", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "expired counter restarts at 1")

	v, err := d.Get(ctx, "ctr")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}
