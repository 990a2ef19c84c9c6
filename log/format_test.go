// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

var sink []byte

func BenchmarkPrettyInt64Logfmt(b *testing.B) {
	buf := make([]byte, 100)
	b.ReportAllocs()
	for b.Loop() {
		sink = appendInt64(buf, rand.Int64()) //#nosec G404
	}
}

func BenchmarkPrettyUint64Logfmt(b *testing.B) {
	buf := make([]byte, 100)
	b.ReportAllocs()
	for b.Loop() {
		sink = appendUint64(buf, rand.Uint64(), false) //#nosec G404
	}
}

func TestAppendUint64(t *testing.T) {
	assert.Equal(t, "99999", string(appendUint64(nil, 99999, false)))
	assert.Equal(t, "1,000,000", string(appendUint64(nil, 1000000, false)))
	assert.Equal(t, "-1,000,000", string(appendUint64(nil, 1000000, true)))
}

func TestAppendU256(t *testing.T) {
	n, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.Equal(t, "123,456,789,012,345,678,901,234,567,890", string(appendU256(nil, n)))
	assert.Equal(t, "1,000,000", string(appendU256(nil, big.NewInt(1000000))))
}

func TestEscapeMessage(t *testing.T) {
	assert.Equal(t, "multi\nline", escapeMessage("multi\nline"))
	assert.Equal(t, `"with=sign"`, escapeMessage("with=sign"))
	assert.Equal(t, "plain message", escapeMessage("plain message"))
}
