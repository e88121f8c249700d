// internal/tools/tools_test.go
package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/todo/internal/repository"
	"github.com/gurkanbulca/todo/internal/service"
)

const owner = "alice"

var idPattern = regexp.MustCompile(`ID: ([0-9a-f-]{36})`)

func newTestToolSet(t *testing.T) *ToolSet {
	t.Helper()
	return NewToolSet(service.NewWorkspace(repository.NewJSONTaskRepositoryFactory(t.TempDir())))
}

func addTodo(t *testing.T, ts *ToolSet, args map[string]interface{}) string {
	t.Helper()
	text, err := ts.Call(context.Background(), owner, "add_todo", args)
	require.NoError(t, err)
	match := idPattern.FindStringSubmatch(text)
	require.Len(t, match, 2, text)
	return match[1]
}

func TestToolSet_AddAndList(t *testing.T) {
	ts := newTestToolSet(t)
	ctx := context.Background()

	text, err := ts.Call(ctx, owner, "list_todos", nil)
	require.NoError(t, err)
	assert.Equal(t, ReplyNoTasks, text)

	addTodo(t, ts, map[string]interface{}{"title": "Buy milk", "tags": "shopping, home", "priority": float64(3)})
	addTodo(t, ts, map[string]interface{}{"title": "Read book", "priority": "low"})

	text, err = ts.Call(ctx, owner, "list_todos", map[string]interface{}{})
	require.NoError(t, err)
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "⭕ Buy milk (HIGH)")
	assert.Contains(t, lines[0], "#shopping #home")
	assert.Contains(t, lines[1], "Read book (LOW)")

	text, err = ts.Call(ctx, owner, "list_todos", map[string]interface{}{"tag": "HOME"})
	require.NoError(t, err)
	assert.NotContains(t, text, "Read book")
}

func TestToolSet_Transitions(t *testing.T) {
	ts := newTestToolSet(t)
	ctx := context.Background()
	id := addTodo(t, ts, map[string]interface{}{"title": "Pay rent"})

	text, err := ts.Call(ctx, owner, "complete_todo", map[string]interface{}{"todo_id": id})
	require.NoError(t, err)
	assert.Equal(t, "Marked task 'Pay rent' as complete.", text)

	text, err = ts.Call(ctx, owner, "complete_todo", map[string]interface{}{"todo_id": id})
	require.NoError(t, err)
	assert.Equal(t, "Task 'Pay rent' is already complete.", text)

	text, err = ts.Call(ctx, owner, "list_todos", map[string]interface{}{"status": "pending"})
	require.NoError(t, err)
	assert.Equal(t, ReplyNoTasks, text)

	text, err = ts.Call(ctx, owner, "toggle_todo", map[string]interface{}{"todo_id": id})
	require.NoError(t, err)
	assert.Equal(t, "Marked task 'Pay rent' as pending.", text)

	text, err = ts.Call(ctx, owner, "update_todo", map[string]interface{}{"todo_id": id, "title": "Pay rent today"})
	require.NoError(t, err)
	assert.Equal(t, "Updated task 'Pay rent today'.", text)

	_, err = ts.Call(ctx, owner, "update_todo", map[string]interface{}{"todo_id": id, "title": "  "})
	assert.Error(t, err)

	text, err = ts.Call(ctx, owner, "toggle_todo", map[string]interface{}{"todo_id": id})
	require.NoError(t, err)
	text, err = ts.Call(ctx, owner, "clear_completed", nil)
	require.NoError(t, err)
	assert.Equal(t, "Cleared 1 completed task(s).", text)

	text, err = ts.Call(ctx, owner, "clear_completed", nil)
	require.NoError(t, err)
	assert.Equal(t, "No completed tasks to clear.", text)
}

func TestToolSet_Replies(t *testing.T) {
	ts := newTestToolSet(t)
	ctx := context.Background()
	id := addTodo(t, ts, map[string]interface{}{"title": "Keep"})
	missing := "00000000-0000-0000-0000-000000000001"

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
		want string
	}{
		{"complete bad id", "complete_todo", map[string]interface{}{"todo_id": "abc"}, ReplyInvalidID},
		{"complete missing", "complete_todo", map[string]interface{}{"todo_id": missing}, ReplyNotFound},
		{"toggle missing", "toggle_todo", map[string]interface{}{"todo_id": missing}, ReplyNotFound},
		{"update missing", "update_todo", map[string]interface{}{"todo_id": missing, "title": "x"}, ReplyNotFound},
		{"update nothing", "update_todo", map[string]interface{}{"todo_id": id}, "Nothing to update."},
		{"delete bad id", "delete_todo", map[string]interface{}{}, ReplyInvalidID},
		{"delete missing", "delete_todo", map[string]interface{}{"todo_id": missing}, ReplyNotFound},
		{"delete", "delete_todo", map[string]interface{}{"todo_id": id}, "Deleted task 'Keep'."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ts.Call(ctx, owner, tt.tool, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestToolSet_Errors(t *testing.T) {
	ts := newTestToolSet(t)
	ctx := context.Background()

	_, err := ts.Call(ctx, owner, "add_todo", map[string]interface{}{"title": " "})
	assert.Error(t, err)

	_, err = ts.Call(ctx, owner, "add_todo", map[string]interface{}{"title": "x", "priority": float64(7)})
	assert.Error(t, err)

	_, err = ts.Call(ctx, owner, "list_todos", map[string]interface{}{"status": "someday"})
	assert.Error(t, err)

	_, err = ts.Call(ctx, owner, "launch_rocket", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestToolSet_OwnersAreIsolated(t *testing.T) {
	ts := newTestToolSet(t)
	ctx := context.Background()
	id := addTodo(t, ts, map[string]interface{}{"title": "Mine"})

	text, err := ts.Call(ctx, "bob", "delete_todo", map[string]interface{}{"todo_id": id})
	require.NoError(t, err)
	assert.Equal(t, ReplyNotFound, text)
}

func TestMCPServer_Session(t *testing.T) {
	server := NewMCPServer(newTestToolSet(t), owner, "test")

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"add_todo","arguments":{"title":"From chat"}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"add_todo","arguments":{"title":""}}}`,
		`not json`,
		``,
		`{"jsonrpc":"2.0","id":5,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"list_todos","arguments":{}}}`,
	}, "\n")

	var out strings.Builder
	require.NoError(t, server.Serve(context.Background(), strings.NewReader(input), &out))

	var responses []map[string]interface{}
	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	for scanner.Scan() {
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	require.Len(t, responses, 7)

	initResult := responses[0]["result"].(map[string]interface{})
	assert.Equal(t, protocolVersion, initResult["protocolVersion"])

	toolList := responses[1]["result"].(map[string]interface{})["tools"].([]interface{})
	assert.Len(t, toolList, 7)

	added := responses[2]["result"].(map[string]interface{})
	assert.Nil(t, added["isError"])
	assert.Contains(t, added["content"].([]interface{})[0].(map[string]interface{})["text"], "Successfully added task: From chat")

	failed := responses[3]["result"].(map[string]interface{})
	assert.Equal(t, true, failed["isError"])

	parseErr := responses[4]["error"].(map[string]interface{})
	assert.Equal(t, float64(codeParseError), parseErr["code"])

	notFound := responses[5]["error"].(map[string]interface{})
	assert.Equal(t, float64(codeMethodNotFound), notFound["code"])

	listed := responses[6]["result"].(map[string]interface{})
	assert.Contains(t, listed["content"].([]interface{})[0].(map[string]interface{})["text"], "From chat")
}

func TestMCPServer_InvalidParams(t *testing.T) {
	server := NewMCPServer(newTestToolSet(t), owner, "test")

	resp := server.Handle(context.Background(), &Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{"arguments":{}}`),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidParams, resp.Error.Code)
}
