// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type nodeRequest struct {
	ID     uint64            `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode is a websocket JSON RPC server answering with the
// handler registered for each method.
type fakeNode struct {
	server *httptest.Server

	mutex    sync.Mutex
	handlers map[string]func(conn *nodeConn, request nodeRequest)
	requests []nodeRequest
	conns    []*nodeConn
}

type nodeConn struct {
	mutex sync.Mutex
	conn  *websocket.Conn
}

func (c *nodeConn) send(t *testing.T, v interface{}) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	err := c.conn.WriteJSON(v)
	if err != nil {
		t.Logf("fake node write: %s", err)
	}
}

func (c *nodeConn) respond(t *testing.T, id uint64, result interface{}) {
	c.send(t, map[string]interface{}{"jsonrpc": "2.0", "id": id, "result": result})
}

func (c *nodeConn) notify(t *testing.T, method string, subscription interface{}, result interface{}) {
	c.send(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  map[string]interface{}{"subscription": subscription, "result": result},
	})
}

func newFakeNode(t *testing.T) *fakeNode {
	t.Helper()

	node := &fakeNode{handlers: make(map[string]func(*nodeConn, nodeRequest))}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	node.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrading: %s", err)
			return
		}
		nc := &nodeConn{conn: conn}

		node.mutex.Lock()
		node.conns = append(node.conns, nc)
		node.mutex.Unlock()

		for {
			var request nodeRequest
			err := conn.ReadJSON(&request)
			if err != nil {
				return
			}

			node.mutex.Lock()
			node.requests = append(node.requests, request)
			handler, ok := node.handlers[request.Method]
			node.mutex.Unlock()

			if !ok {
				nc.send(t, map[string]interface{}{
					"jsonrpc": "2.0",
					"id":      request.ID,
					"error":   map[string]interface{}{"code": -32601, "message": "Method not found"},
				})
				continue
			}
			handler(nc, request)
		}
	}))
	t.Cleanup(node.server.Close)

	return node
}

func (n *fakeNode) handle(method string, handler func(conn *nodeConn, request nodeRequest)) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.handlers[method] = handler
}

func (n *fakeNode) url() string {
	return "ws" + strings.TrimPrefix(n.server.URL, "http")
}

func (n *fakeNode) methods() (methods []string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	for _, request := range n.requests {
		methods = append(methods, request.Method)
	}
	return methods
}

func (n *fakeNode) closeConnections() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	for _, nc := range n.conns {
		_ = nc.conn.Close()
	}
}

func dialNode(t *testing.T, node *fakeNode) *Client {
	t.Helper()
	client, err := Dial(testContext(t), node.url())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
