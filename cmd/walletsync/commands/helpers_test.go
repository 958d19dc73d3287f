// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testChainID = "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"
	aliceHex    = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	bobAddress  = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"
	bobHex      = "0x8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48"
)

const testConfig = `
[account]
address = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"

[[chains]]
id = "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"
name = "Polkadot"
url = "ws://127.0.0.1:1"

[[chains.assets]]
id = 0
symbol = "DOT"
precision = 10
utility = true
currency = "native"

[[chains.assets]]
id = 1
symbol = "USDT"
precision = 6
currency = "assets"
currency_number = "1984"
`

func writeTestConfig(t *testing.T) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(testConfig), 0o600)
	require.NoError(t, err)
	return path
}

func execute(t *testing.T, args ...string) (output string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	buffer := bytes.NewBuffer(nil)
	cmd.SetOut(buffer)
	cmd.SetErr(buffer)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return buffer.String(), err
}
