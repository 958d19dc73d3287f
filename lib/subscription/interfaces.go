// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package subscription

import (
	"context"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
	"github.com/ChainSafe/walletsync/lib/storage"
)

// Connection is a chain connection supporting storage subscriptions.
type Connection interface {
	SubscribeStorage(ctx context.Context, keys []string,
		onChange func(changeSet storage.ChangeSet), onError func(err error)) (id string, err error)
	UnsubscribeStorage(ctx context.Context, id string) error
}

// ConnectionProvider returns the connection of a chain.
type ConnectionProvider interface {
	Connection(ctx context.Context, chainID chain.ChainID) (Connection, error)
}

// FactoryProvider returns the runtime coder factory of a chain.
type FactoryProvider interface {
	FetchCoderFactory(ctx context.Context, chainID chain.ChainID) (metadata.CoderFactory, error)
}
