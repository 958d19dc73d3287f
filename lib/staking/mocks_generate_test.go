// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package staking

//go:generate mockgen -destination=mocks_test.go -package=$GOPACKAGE . Subscriber
//go:generate mockgen -destination=mocks_storage_test.go -package=$GOPACKAGE github.com/ChainSafe/walletsync/lib/storage Querier
