package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/require"
)

var testJWT = services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)

type fixedAccess access.Effective

func (f fixedAccess) Resolve(context.Context, uuid.UUID, string) access.Effective {
	return access.Effective(f)
}

// stack is the middleware every protected route runs behind.
func stack(eff access.Effective) []drift.HandlerFunc {
	return []drift.HandlerFunc{
		driftmw.BodyParser(),
		middleware.Auth(testJWT),
		middleware.Access(fixedAccess(eff)),
	}
}

func plainUser() access.Effective {
	return testutil.AccessAs(access.RoleUser)
}

func superAdmin() access.Effective {
	return testutil.AccessAs(access.RoleSuperAdmin, access.AllPermissions()...)
}

func withPerms(perms ...access.Permission) access.Effective {
	return testutil.AccessAs(access.RoleUser, perms...)
}

func bearer(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	pair, err := testJWT.GenerateTokenPair(userID, email)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

// do sends a request with an optional JSON body and bearer header.
func do(app http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			data, _ := json.Marshal(body)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}
