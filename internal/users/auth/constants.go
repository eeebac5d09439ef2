// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Callback Parameters

const (
	// ParamCode carries the authorization code Google appends to the callback URL.
	ParamCode = "code"

	// ParamError is set by Google instead of code when the user denied consent.
	ParamError = "error"
)

// # Token Pair Fields

const (
	FieldAccessToken  = "access_token"
	FieldRefreshToken = "refresh_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
)
