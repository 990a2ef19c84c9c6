// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Well-known revert conditions. Operations that hit one of these reject
// the call and leave all pool state untouched.
var (
	// InsufficientStake signals an undelegate larger than the member's
	// effective stake for the upcoming epoch.
	InsufficientStake = New("insufficient stake")

	// DuplicateEpochWrite signals a second reward credit for an epoch
	// that already has a ratio snapshot.
	DuplicateEpochWrite = New("duplicate epoch write")

	// UnresolvedEpochGap signals a stored ratio snapshot that cannot be
	// interpreted, such as a zero denominator.
	UnresolvedEpochGap = New("unresolved epoch gap")
)

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
