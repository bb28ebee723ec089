package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextjob/nextjob/internal/store"
)

type registerRequest struct {
	Name     string     `json:"name" binding:"required,min=2"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=6"`
	Role     store.Role `json:"role" binding:"required,oneof=EMPLOYER USER ADMIN"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type requestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type updateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

type updateRoleRequest struct {
	Role store.Role `json:"role" binding:"required,oneof=EMPLOYER USER ADMIN"`
}

type adminUpdateUserRequest struct {
	Name     *string     `json:"name" binding:"omitempty,min=2"`
	Email    *string     `json:"email" binding:"omitempty,email"`
	Password *string     `json:"password" binding:"omitempty,min=6"`
	Role     *store.Role `json:"role" binding:"omitempty,oneof=EMPLOYER USER ADMIN"`
}

func (r adminUpdateUserRequest) patch() store.UserPatch {
	return store.UserPatch{Name: r.Name, Email: r.Email, Password: r.Password, Role: r.Role}
}

func (a *API) register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Registered. Check your email for the verification code.", user)
}

func (a *API) requestOTP(c *gin.Context) {
	var req requestOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := a.auth.RequestOTP(c.Request.Context(), req.Email); err != nil {
		a.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Verification code sent.")
}

func (a *API) verifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.auth.VerifyEmail(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Email verified successfully.", user)
}

func (a *API) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	tok, user, err := a.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(c, err)
		return
	}

	a.setTokenCookie(c, tok, int(a.tokenTTL.Seconds()))
	respond(c, http.StatusOK, "Logged in successfully.", gin.H{
		"user":  user,
		"token": tok,
	})
}

func (a *API) logout(c *gin.Context) {
	// Stateless tokens cannot be revoked; clearing the cookie channel is
	// all logout does. A bearer token held by the client stays valid until
	// its natural expiry.
	a.setTokenCookie(c, "", -1)
	respondMessage(c, http.StatusOK, "Logged out successfully.")
}

// setTokenCookie writes the HTTP-only, secure, cross-site cookie channel.
// The token also travels in the response body for header-based clients.
func (a *API) setTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(tokenCookie, value, maxAge, "/", "", true, true)
}

func (a *API) profile(c *gin.Context) {
	respond(c, http.StatusOK, "", currentUser(c))
}

func (a *API) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.auth.UpdateProfile(c.Request.Context(), currentUser(c).ID, store.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}

func (a *API) deleteProfile(c *gin.Context) {
	if err := a.auth.DeleteProfile(c.Request.Context(), currentUser(c).ID); err != nil {
		a.fail(c, err)
		return
	}
	a.setTokenCookie(c, "", -1)
	respondMessage(c, http.StatusOK, "User deleted successfully.")
}

func (a *API) role(c *gin.Context) {
	respond(c, http.StatusOK, "", gin.H{"role": currentUser(c).Role})
}

func (a *API) updateRole(c *gin.Context) {
	var req updateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := a.auth.UpdateProfile(c.Request.Context(), currentUser(c).ID, store.UserPatch{Role: &req.Role}); err != nil {
		a.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User role updated successfully.")
}

func (a *API) listUsers(c *gin.Context) {
	users, err := a.auth.ListUsers(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", users)
}

func (a *API) userByID(c *gin.Context) {
	user, err := a.auth.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}

func (a *API) updateUserByID(c *gin.Context) {
	var req adminUpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.auth.UpdateProfile(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}

func (a *API) deleteUserByID(c *gin.Context) {
	if err := a.auth.DeleteProfile(c.Request.Context(), c.Param("id")); err != nil {
		a.fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User deleted successfully.")
}

func (a *API) userByEmail(c *gin.Context) {
	user, err := a.auth.UserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}

func (a *API) updateUserByEmail(c *gin.Context) {
	var req adminUpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.auth.UserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		a.fail(c, err)
		return
	}

	updated, err := a.auth.UpdateProfile(c.Request.Context(), user.ID, req.patch())
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", updated)
}
