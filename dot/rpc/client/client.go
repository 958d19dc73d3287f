// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package client implements a websocket JSON RPC client for Substrate nodes.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ChainSafe/walletsync/internal/log"
	"github.com/gorilla/websocket"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "rpc/client"))

type pendingCall struct {
	responses chan *message
	// subscription is set for subscribe calls and registered by
	// the reader as soon as the response is read.
	subscription *subscription
	abandoned    bool
}

type subscription struct {
	id                string
	rawID             json.RawMessage
	unsubscribeMethod string
	onNotify          func(result json.RawMessage)
	onError           func(err error)
}

type notification struct {
	subscription *subscription
	result       json.RawMessage
	err          error
}

// Client is a JSON RPC client over a single websocket connection.
// Notifications are delivered in order on a goroutine distinct from the
// websocket reader, so callbacks may issue calls on the same client.
type Client struct {
	url    string
	conn   *websocket.Conn
	logger log.LeveledLogger

	writeMutex sync.Mutex

	mutex         sync.Mutex
	nextID        uint64
	pending       map[uint64]*pendingCall
	subscriptions map[string]*subscription
	closeErr      error

	queueMutex  sync.Mutex
	queue       []notification
	queueClosed bool
	queueSignal chan struct{}

	closed       chan struct{}
	readerDone   chan struct{}
	dispatchDone chan struct{}
}

// Dial connects to the websocket JSON RPC endpoint at url.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, response, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if response != nil && response.Body != nil {
		_ = response.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}

	return newClient(url, conn), nil
}

func newClient(url string, conn *websocket.Conn) *Client {
	c := &Client{
		url:           url,
		conn:          conn,
		logger:        logger.New(log.AddContext("url", url)),
		pending:       make(map[uint64]*pendingCall),
		subscriptions: make(map[string]*subscription),
		queueSignal:   make(chan struct{}, 1),
		closed:        make(chan struct{}),
		readerDone:    make(chan struct{}),
		dispatchDone:  make(chan struct{}),
	}

	go c.read()
	go c.dispatch()

	return c
}

// URL returns the endpoint url of the client.
func (c *Client) URL() string {
	return c.url
}

// Done returns a channel closed once the connection is closed.
func (c *Client) Done() <-chan struct{} {
	return c.closed
}

// Close closes the connection and waits for the client goroutines to exit.
// Pending calls and subscriptions fail with ErrConnectionClosed.
func (c *Client) Close() (err error) {
	err = c.conn.Close()
	<-c.readerDone
	<-c.dispatchDone
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return fmt.Errorf("closing websocket: %w", err)
	}
	return nil
}

// Call calls the method with the parameters given and decodes
// the JSON result into result, if result is not nil.
func (c *Client) Call(ctx context.Context, method string, result interface{}, params ...interface{}) error {
	response, err := c.roundTrip(ctx, method, params, nil)
	if err != nil {
		return err
	}

	if result == nil {
		return nil
	}

	err = json.Unmarshal(response.Result, result)
	if err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}

// Subscribe calls the subscribe method given and returns the subscription id.
// onNotify is called with the result of each notification and onError is
// called once if the connection fails while the subscription is open.
func (c *Client) Subscribe(ctx context.Context, method, unsubscribeMethod string,
	onNotify func(result json.RawMessage), onError func(err error),
	params ...interface{}) (id string, err error) {
	sub := &subscription{
		unsubscribeMethod: unsubscribeMethod,
		onNotify:          onNotify,
		onError:           onError,
	}

	_, err = c.roundTrip(ctx, method, params, sub)
	if err != nil {
		return "", err
	}

	return sub.id, nil
}

// Unsubscribe cancels the subscription with the id given.
// Unknown subscription ids are sent with the unsubscribe method given.
func (c *Client) Unsubscribe(ctx context.Context, unsubscribeMethod, id string) error {
	c.mutex.Lock()
	sub, ok := c.subscriptions[id]
	delete(c.subscriptions, id)
	c.mutex.Unlock()

	var param interface{} = id
	if ok {
		param = sub.rawID
		unsubscribeMethod = sub.unsubscribeMethod
	}

	var accepted bool
	err := c.Call(ctx, unsubscribeMethod, &accepted, param)
	if err != nil {
		return err
	}

	if !accepted {
		return fmt.Errorf("%w: %s", ErrUnsubscribeRejected, id)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method string, params []interface{},
	sub *subscription) (response *message, err error) {
	if params == nil {
		params = []interface{}{}
	}

	call := &pendingCall{
		responses:    make(chan *message, 1),
		subscription: sub,
	}

	c.mutex.Lock()
	if c.closeErr != nil {
		err = c.closeErr
		c.mutex.Unlock()
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	c.nextID++
	id := c.nextID
	c.pending[id] = call
	c.mutex.Unlock()

	err = c.write(request{
		Version: jsonRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		c.abandon(id, call)
		return nil, fmt.Errorf("writing %s request: %w", method, err)
	}

	select {
	case <-ctx.Done():
		c.abandon(id, call)
		return nil, fmt.Errorf("calling %s: %w", method, ctx.Err())
	case <-c.closed:
		return nil, fmt.Errorf("calling %s: %w", method, ErrConnectionClosed)
	case response = <-call.responses:
	}

	if response.Error != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResponseError, method, response.Error)
	}

	return response, nil
}

// abandon drops a call. If the call is a subscription whose response
// is read later, the reader unsubscribes it. If the response was already
// read, the subscription registered for it is removed and unsubscribed.
func (c *Client) abandon(id uint64, call *pendingCall) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, pending := c.pending[id]
	sub := call.subscription
	switch {
	case pending && sub == nil:
		delete(c.pending, id)
	case pending:
		call.abandoned = true
	case sub != nil && sub.id != "":
		registered, ok := c.subscriptions[sub.id]
		if !ok || registered != sub {
			return
		}
		delete(c.subscriptions, sub.id)
		go c.unsubscribeAbandoned(sub)
	}
}

func (c *Client) write(v interface{}) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Client) read() {
	defer close(c.readerDone)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.fail(err)
			return
		}

		c.logger.Tracef("websocket message received: %s", data)

		var msg message
		err = json.Unmarshal(data, &msg)
		if err != nil {
			c.logger.Debugf("failed to unmarshal websocket message: %s", err)
			continue
		}

		switch {
		case msg.ID != nil:
			c.handleResponse(&msg)
		case msg.Method != "" && msg.Params != nil:
			c.handleNotification(&msg)
		default:
			c.logger.Debugf("ignoring websocket message: %s", data)
		}
	}
}

func (c *Client) handleResponse(msg *message) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	call, ok := c.pending[*msg.ID]
	if !ok {
		c.logger.Debugf("no pending call for response id %d", *msg.ID)
		return
	}
	delete(c.pending, *msg.ID)

	sub := call.subscription
	if sub != nil && msg.Error == nil {
		id, err := parseSubscriptionID(msg.Result)
		if err != nil {
			msg.Error = &Error{Message: err.Error()}
		} else {
			sub.id = id
			sub.rawID = msg.Result
			if call.abandoned {
				go c.unsubscribeAbandoned(sub)
				return
			}
			c.subscriptions[id] = sub
		}
	}

	if !call.abandoned {
		call.responses <- msg
	}
}

func (c *Client) unsubscribeAbandoned(sub *subscription) {
	var accepted bool
	err := c.Call(context.Background(), sub.unsubscribeMethod, &accepted, sub.rawID)
	if err != nil {
		c.logger.Debugf("unsubscribing abandoned subscription %s: %s", sub.id, err)
	}
}

func (c *Client) handleNotification(msg *message) {
	id, err := parseSubscriptionID(msg.Params.Subscription)
	if err != nil {
		c.logger.Debugf("%s notification: %s", msg.Method, err)
		return
	}

	c.mutex.Lock()
	sub, ok := c.subscriptions[id]
	c.mutex.Unlock()
	if !ok {
		c.logger.Tracef("no subscription for %s notification with id %s", msg.Method, id)
		return
	}

	c.enqueue(notification{subscription: sub, result: msg.Params.Result})
}

// fail closes the client after a read error. It is only called by the reader.
func (c *Client) fail(err error) {
	c.mutex.Lock()
	c.closeErr = ErrConnectionClosed
	subscriptions := c.subscriptions
	c.subscriptions = make(map[string]*subscription)
	c.pending = make(map[uint64]*pendingCall)
	close(c.closed)
	c.mutex.Unlock()

	c.logger.Debugf("websocket connection closed: %s", err)

	for _, sub := range subscriptions {
		c.enqueue(notification{
			subscription: sub,
			err:          fmt.Errorf("%w: %w", ErrConnectionClosed, err),
		})
	}

	c.queueMutex.Lock()
	c.queueClosed = true
	c.queueMutex.Unlock()
	c.signal()

	_ = c.conn.Close()
}

// enqueue queues a notification without blocking the reader.
func (c *Client) enqueue(n notification) {
	c.queueMutex.Lock()
	c.queue = append(c.queue, n)
	c.queueMutex.Unlock()
	c.signal()
}

func (c *Client) signal() {
	select {
	case c.queueSignal <- struct{}{}:
	default:
	}
}

func (c *Client) dispatch() {
	defer close(c.dispatchDone)

	for range c.queueSignal {
		for {
			c.queueMutex.Lock()
			if len(c.queue) == 0 {
				closed := c.queueClosed
				c.queueMutex.Unlock()
				if closed {
					return
				}
				break
			}
			n := c.queue[0]
			c.queue[0] = notification{}
			c.queue = c.queue[1:]
			c.queueMutex.Unlock()

			deliver(n)
		}
	}
}

func deliver(n notification) {
	sub := n.subscription
	if n.err != nil {
		if sub.onError != nil {
			sub.onError(n.err)
		}
		return
	}

	if sub.onNotify != nil {
		sub.onNotify(n.result)
	}
}
