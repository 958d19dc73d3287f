// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package accountinfo

//go:generate mockgen -destination=mocks_subscription_test.go -package=$GOPACKAGE github.com/ChainSafe/walletsync/lib/subscription Connection,ConnectionProvider,FactoryProvider
//go:generate mockgen -destination=mocks_storage_test.go -package=$GOPACKAGE github.com/ChainSafe/walletsync/lib/storage Querier,QuerierProvider
