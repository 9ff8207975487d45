package queue

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOrderLine(t *testing.T) {
	body, err := json.Marshal(OrderPlacedEvent{
		OrderID: 10, DinerID: 2, FranchiseID: 1, StoreID: 3, ItemCount: 2, Total: 0.0051,
		PlacedAt: "2024-06-01T12:00:00Z",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteOrderLine(&buf, body))
	assert.Equal(t,
		"[2024-06-01T12:00:00Z] Order placed | order_id=10 | diner_id=2 | franchise_id=1 | store_id=3 | items=2 | total=0.0051\n",
		buf.String())
}

func TestWriteOrderLine_Rejects(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteOrderLine(&buf, []byte("not json")))
	assert.Error(t, WriteOrderLine(&buf, []byte(`{"diner_id":2}`)))
	assert.Zero(t, buf.Len())
}

func TestConsumer_HandleAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "orders.log")
	c := NewConsumer("amqp://unused", path)

	require.NoError(t, c.handle([]byte(`{"order_id":1,"placed_at":"a"}`)))
	require.NoError(t, c.handle([]byte(`{"order_id":2,"placed_at":"b"}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
	assert.Contains(t, string(data), "order_id=2")
}
