// go-fichaje
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-fichaje.
//
// go-fichaje is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-fichaje is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-fichaje; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package remote

import "context"

type txnKey struct{}

// ContextWithTransactionID attaches a correlation id that is sent as
// X-Request-ID on every request made with the context
func ContextWithTransactionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, txnKey{}, id)
}

// TransactionID returns the correlation id carried by ctx, if any
func TransactionID(ctx context.Context) string {
	id, _ := ctx.Value(txnKey{}).(string)
	return id
}
