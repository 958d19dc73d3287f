// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	ss58Checksum    = "SS58PRE"
	ss58ChecksumLen = 2
	// AccountIDLength is the length of a substrate account id.
	AccountIDLength = 32
	// EthereumAccountIDLength is the length of an ethereum compatible account id.
	EthereumAccountIDLength = ethcommon.AddressLength
)

var (
	ErrAddressFormat   = errors.New("address format is not recognised")
	ErrAddressChecksum = errors.New("address checksum mismatch")
	ErrAddressPrefix   = errors.New("address prefix is not supported")
)

// DecodeAddress decodes a SS58 address, a 0x prefixed 20 bytes ethereum
// address or a 0x prefixed 32 bytes public key into its account id bytes.
func DecodeAddress(address string) (accountID []byte, err error) {
	if strings.HasPrefix(address, "0x") {
		switch {
		case ethcommon.IsHexAddress(address):
			return ethcommon.HexToAddress(address).Bytes(), nil
		case len(address) == 2+2*AccountIDLength:
			return HexToBytes(address)
		default:
			return nil, fmt.Errorf("%w: %s", ErrAddressFormat, address)
		}
	}

	accountID, _, err = DecodeSS58(address)
	return accountID, err
}

// DecodeSS58 decodes a SS58 address and returns the account id
// together with the network prefix it was encoded with.
func DecodeSS58(address string) (accountID []byte, prefix uint16, err error) {
	data := base58.Decode(address)
	if len(data) < 1+AccountIDLength+ss58ChecksumLen {
		return nil, 0, fmt.Errorf("%w: %s", ErrAddressFormat, address)
	}

	prefixLength := 1
	switch {
	case data[0] < 64:
		prefix = uint16(data[0])
	case data[0] < 128:
		prefixLength = 2
		lower := (data[0]&0b0011_1111)<<2 | data[1]>>6
		upper := data[1] & 0b0011_1111
		prefix = uint16(lower) | uint16(upper)<<8
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrAddressPrefix, data[0])
	}

	if len(data) != prefixLength+AccountIDLength+ss58ChecksumLen {
		return nil, 0, fmt.Errorf("%w: %s", ErrAddressFormat, address)
	}

	body := data[:len(data)-ss58ChecksumLen]
	checksum := ss58ChecksumOf(body)
	if !bytes.Equal(checksum, data[len(data)-ss58ChecksumLen:]) {
		return nil, 0, fmt.Errorf("%w: %s", ErrAddressChecksum, address)
	}

	return body[prefixLength:], prefix, nil
}

// EncodeSS58 encodes a 32 bytes account id into a SS58 address
// for the given network prefix.
func EncodeSS58(accountID []byte, prefix uint16) (string, error) {
	if len(accountID) != AccountIDLength {
		return "", fmt.Errorf("%w: account id has %d bytes", ErrAddressFormat, len(accountID))
	}
	if prefix >= 1<<14 {
		return "", fmt.Errorf("%w: %d", ErrAddressPrefix, prefix)
	}

	var body []byte
	if prefix < 64 {
		body = append(body, byte(prefix))
	} else {
		first := byte((prefix&0b0000_0000_1111_1100)>>2) | 0b0100_0000
		second := byte(prefix>>8) | byte(prefix&0b0000_0000_0000_0011)<<6
		body = append(body, first, second)
	}
	body = append(body, accountID...)
	body = append(body, ss58ChecksumOf(body)...)

	return base58.Encode(body), nil
}

func ss58ChecksumOf(body []byte) []byte {
	preimage := make([]byte, 0, len(ss58Checksum)+len(body))
	preimage = append(preimage, ss58Checksum...)
	preimage = append(preimage, body...)
	return Blake2b512(preimage)[:ss58ChecksumLen]
}
