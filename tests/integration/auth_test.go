//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestLogin_BootstrapAdmin(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{"phone": adminPhone})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[loginResponse](t, resp)
	if body.Token == "" {
		t.Error("token is empty")
	}
	if !body.User.Admin {
		t.Error("bootstrap account is not an admin")
	}
}

func TestLogin_UnknownPhone(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{"phone": "+19999999999"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRegister_ApprovalFlow(t *testing.T) {
	const phone = "+15550000001"

	resp := doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Flow", "lastName": "Tester", "phone": phone,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	u := decodeJSON[userResponse](t, resp)
	resp.Body.Close()

	if u.Approved {
		t.Error("fresh registration must start unapproved")
	}
	if u.Admin {
		t.Error("fresh registration must not be admin")
	}

	// Pending accounts cannot log in.
	resp = doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{"phone": phone})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("pending login: expected 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Approve via the admin API, then login succeeds.
	admin := loginAdmin(t)
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/approve", u.ID), admin, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("approve: expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{"phone": phone})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approved login: expected 200, got %d", resp.StatusCode)
	}
}

func TestRegister_DuplicatePhone(t *testing.T) {
	const phone = "+15550000002"

	resp := doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "First", "lastName": "Claim", "phone": phone,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Second", "lastName": "Claim", "phone": phone,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", resp.StatusCode)
	}

	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Code != 409 {
		t.Errorf("error code: got %d, want 409", errResp.Code)
	}
}

func TestRejectedUser_SessionInvalidated(t *testing.T) {
	const phone = "+15550000003"
	token := registerAndApprove(t, "Soon", "Gone", phone)

	resp := doGet(t, "/api/auth/me", token)
	u := decodeJSON[userResponse](t, resp)
	resp.Body.Close()

	admin := loginAdmin(t)
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", u.ID), admin, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("reject: expected 204, got %d", resp.StatusCode)
	}

	// The deleted account's session no longer works.
	resp = doGet(t, "/api/auth/me", token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after rejection, got %d", resp.StatusCode)
	}
}

func TestAdminEndpoints_RequireAdmin(t *testing.T) {
	customer := registerAndApprove(t, "Plain", "Customer", "+15550000004")

	resp := doGet(t, "/api/admin/users", customer)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
