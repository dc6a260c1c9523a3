// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "Test-Secret-Key-32-Bytes-Long!!!"

func TestIssuer_IssueVerify(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	token, issued, err := issuer.Issue(42, "admin@parish.org")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AdminID)
	assert.Equal(t, "admin@parish.org", claims.Email)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, issued.ExpiresAt, claims.ExpiresAt)
}

func TestIssuer_VerifyExpired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := NewIssuer(testSecret, time.Hour).WithClock(func() time.Time { return past })

	token, _, err := issuer.Issue(1, "a@b.c")
	require.NoError(t, err)

	_, err = NewIssuer(testSecret, time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssuer_VerifyWrongSecret(t *testing.T) {
	token, _, err := NewIssuer(testSecret, time.Hour).Issue(1, "a@b.c")
	require.NoError(t, err)

	_, err = NewIssuer("Another-Secret-Key-32-Bytes-Long", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestIssuer_VerifyRejects(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "not-a-number",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	otherIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "  ", ErrTokenMissing},
		{"garbage", "not.a.token", ErrTokenInvalid},
		{"alg none", noneToken, ErrTokenSignature},
		{"bad subject", badSubject, ErrTokenInvalid},
		{"wrong issuer", otherIssuer, ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}
