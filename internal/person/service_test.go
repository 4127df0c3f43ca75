package person

import (
	"context"
	"errors"
	"testing"

	"github.com/gojideth/Docker-compose-networks/internal/graph"
	"github.com/gojideth/Docker-compose-networks/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGenerator struct{ p Person }

func (g fixedGenerator) Next() Person { return g.p }

// newFakeStore wires a mock client that keeps :Person nodes in memory and
// answers the two queries the service issues.
func newFakeStore(t *testing.T) *graph.MockGraphClient {
	t.Helper()

	mock := graph.NewMockGraphClient()
	require.NoError(t, mock.Connect(context.Background()))

	var rows []map[string]any
	mock.SetQueryFunc(func(mode graph.AccessMode, cypher string, params map[string]any) (graph.QueryResult, error) {
		switch cypher {
		case createQuery:
			require.Equal(t, graph.AccessModeWrite, mode)
			row := map[string]any{"name": params["name"], "age": int64(params["age"].(int))}
			rows = append(rows, row)
			return graph.QueryResult{Records: []map[string]any{row}, Columns: []string{"name", "age"}}, nil
		case listQuery:
			require.Equal(t, graph.AccessModeRead, mode)
			out := make([]map[string]any, len(rows))
			copy(out, rows)
			return graph.QueryResult{Records: out, Columns: []string{"name", "age"}}, nil
		default:
			return graph.QueryResult{}, types.NewError(graph.ErrCodeGraphQueryFailed, "unexpected query: "+cypher)
		}
	})
	return mock
}

func TestService_Create(t *testing.T) {
	mock := newFakeStore(t)
	svc := NewService(mock, WithGenerator(fixedGenerator{Person{Name: "Oscar", Age: 44}}))

	p, err := svc.Create(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Person{Name: "Oscar", Age: 44}, p)

	calls := mock.GetCallsByMethod("Execute")
	require.Len(t, calls, 1)
	assert.Equal(t, createQuery, calls[0].Args[0], "values must be bound, not interpolated")
	assert.Equal(t, map[string]any{"name": "Oscar", "age": 44}, calls[0].Args[1])
}

func TestService_CreateRandomIsInRange(t *testing.T) {
	svc := NewService(newFakeStore(t), WithGenerator(NewSeededGenerator(3, 4)))

	for i := 0; i < 200; i++ {
		p, err := svc.Create(context.Background())
		require.NoError(t, err)
		assert.True(t, IsKnownName(p.Name))
		assert.GreaterOrEqual(t, p.Age, MinAge)
		assert.LessOrEqual(t, p.Age, MaxAge)
	}
}

func TestService_ListEmpty(t *testing.T) {
	svc := NewService(newFakeStore(t))

	persons, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, persons)
	assert.Empty(t, persons)
}

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore(t))

	first, err := svc.Create(ctx)
	require.NoError(t, err)
	before, err := svc.List(ctx)
	require.NoError(t, err)

	second, err := svc.Create(ctx)
	require.NoError(t, err)
	after, err := svc.List(ctx)
	require.NoError(t, err)

	assert.Contains(t, before, first)
	assert.Equal(t, append(before, second), after, "new record appended to prior contents")
}

func TestService_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	storeErr := types.WrapError(graph.ErrCodeGraphConnectionLost, "lost connection", errors.New("connection refused"))

	t.Run("create", func(t *testing.T) {
		mock := graph.NewMockGraphClient()
		_ = mock.Connect(ctx)
		mock.SetQueryError(storeErr)

		_, err := NewService(mock).Create(ctx)

		require.Error(t, err)
		assert.True(t, graph.IsStoreUnavailable(err))
		assert.False(t, IsInternalFault(err))
	})

	t.Run("list", func(t *testing.T) {
		mock := graph.NewMockGraphClient()
		_ = mock.Connect(ctx)
		mock.SetQueryError(storeErr)

		persons, err := NewService(mock).List(ctx)

		require.Error(t, err)
		assert.Nil(t, persons)
		assert.True(t, graph.IsStoreUnavailable(err))
	})

	t.Run("never connected", func(t *testing.T) {
		_, err := NewService(graph.NewMockGraphClient()).List(ctx)

		assert.True(t, graph.IsStoreUnavailable(err))
		assert.True(t, graph.IsNotConnected(err))
	})
}

func TestService_CreateNoRecord(t *testing.T) {
	mock := graph.NewMockGraphClient()
	_ = mock.Connect(context.Background())
	mock.AddQueryResult(graph.QueryResult{Records: []map[string]any{}})

	_, err := NewService(mock).Create(context.Background())

	require.Error(t, err)
	assert.True(t, IsInternalFault(err))
	assert.False(t, graph.IsStoreUnavailable(err))
	assert.Equal(t, ErrCodePersonCreateNoRecord, types.CodeOf(err))
}

func TestService_DecodeFailures(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
	}{
		{name: "missing name", record: map[string]any{"age": int64(30)}},
		{name: "null age", record: map[string]any{"name": "Alice", "age": nil}},
		{name: "float age", record: map[string]any{"name": "Alice", "age": 30.5}},
		{name: "numeric name", record: map[string]any{"name": 7, "age": int64(30)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := graph.NewMockGraphClient()
			_ = mock.Connect(context.Background())
			mock.AddQueryResult(graph.QueryResult{Records: []map[string]any{tt.record}})

			_, err := NewService(mock).List(context.Background())

			require.Error(t, err)
			assert.Equal(t, ErrCodePersonDecodeFailed, types.CodeOf(err))
			assert.True(t, IsInternalFault(err))
		})
	}
}

func TestDecode_IntegerKinds(t *testing.T) {
	for _, age := range []any{int64(21), 21, int32(21)} {
		p, err := decode(map[string]any{"name": "Nina", "age": age})
		require.NoError(t, err)
		assert.Equal(t, Person{Name: "Nina", Age: 21}, p)
	}
}
