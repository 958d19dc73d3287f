// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "walletsync"

var (
	// MetadataFetches counts runtime metadata fetches per chain and outcome.
	MetadataFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "metadata",
		Name:      "fetches_total",
		Help:      "Number of runtime metadata fetches.",
	}, []string{"chain", "outcome"})

	// ActiveSubscriptions tracks the open storage subscriptions per chain.
	ActiveSubscriptions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "subscription",
		Name:      "active",
		Help:      "Number of open storage subscriptions.",
	}, []string{"chain"})

	// StorageUpdates counts the storage changes dispatched to handlers.
	StorageUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "subscription",
		Name:      "updates_total",
		Help:      "Number of storage changes dispatched to handlers.",
	}, []string{"chain"})

	// SubscriptionErrors counts subscription failures per chain and kind.
	SubscriptionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "subscription",
		Name:      "errors_total",
		Help:      "Number of storage subscription failures.",
	}, []string{"chain", "kind"})
)
