package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nkiryanov/streamium/internal/apperrors"
	"github.com/nkiryanov/streamium/internal/handlers/render"
	"github.com/nkiryanov/streamium/internal/handlers/userctx"
	"github.com/nkiryanov/streamium/internal/logger"
	"github.com/nkiryanov/streamium/internal/service/auth"
)

func handleRegister(as authService, l logger.Logger) http.Handler {
	type request struct {
		Username   string `json:"username" validate:"required,notblank,min=2,max=50"`
		FullName   string `json:"fullName" validate:"required,notblank"`
		Email      string `json:"email" validate:"required,email"`
		Password   string `json:"password" validate:"required,min=8"`
		AvatarPath string `json:"avatarPath" validate:"required"`
		CoverPath  string `json:"coverPath"`
	}
	type response struct {
		User userResponse `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := as.Register(r.Context(), auth.RegisterParams{
			Username:   data.Username,
			FullName:   data.FullName,
			Email:      data.Email,
			Password:   data.Password,
			AvatarPath: data.AvatarPath,
			CoverPath:  data.CoverPath,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "User already registered", http.StatusConflict)
			case errors.Is(err, apperrors.ErrUploadFailed):
				render.ServiceError(w, "Image upload failed, retry", http.StatusBadRequest)
			default:
				l.Error("register failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, response{User: toUserResponse(user)}, http.StatusCreated)
	})
}

func handleLogin(as authService, l logger.Logger) http.Handler {
	type request struct {
		Login    string `json:"login" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		User         userResponse `json:"user"`
		AccessToken  string       `json:"accessToken"`
		RefreshToken string       `json:"refreshToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := as.Login(r.Context(), data.Login, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "User doesn't exist", http.StatusNotFound)
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				render.ServiceError(w, "Invalid user credentials", http.StatusUnauthorized)
			default:
				l.Error("login failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		as.SetTokenPairToResponse(w, pair)
		render.JSON(w, response{
			User:         toUserResponse(user),
			AccessToken:  pair.Access.Value,
			RefreshToken: pair.Refresh.Value,
		})
	})
}

func handleTokenRefresh(as authService, l logger.Logger) http.Handler {
	// Inline fallback for callers that can't carry the cookie
	type request struct {
		RefreshToken string `json:"refreshToken"`
	}
	type response struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, ok := as.RefreshStringFromRequest(r)
		if !ok {
			var data request
			if err := json.NewDecoder(r.Body).Decode(&data); err == nil {
				refresh = data.RefreshToken
			}
		}

		pair, err := as.RefreshPair(r.Context(), refresh)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				render.ServiceError(w, "Refresh token expired", http.StatusUnauthorized)
			default:
				render.ServiceError(w, "Invalid refresh token", http.StatusUnauthorized)
			}
			return
		}

		as.SetTokenPairToResponse(w, pair)
		render.JSON(w, response{
			AccessToken:  pair.Access.Value,
			RefreshToken: pair.Refresh.Value,
		})
	})
}

func handleLogout(as authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())

		if err := as.Logout(r.Context(), user.ID); err != nil {
			l.Error("logout failed", "error", err, "user_id", user.ID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		as.ClearTokenPair(w)
		render.JSON(w, response{Message: "User has been logged out"})
	})
}

func handleChangePassword(as authService, l logger.Logger) http.Handler {
	type request struct {
		OldPassword     string `json:"oldPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=8"`
		ConfirmPassword string `json:"confirmPassword" validate:"required"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, _ := userctx.FromContext(r.Context())

		err = as.ChangePassword(r.Context(), user.ID, data.OldPassword, data.NewPassword, data.ConfirmPassword)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrPasswordConfirmMismatch):
				render.ServiceError(w, "New password and confirmation must be equal", http.StatusBadRequest)
			case errors.Is(err, apperrors.ErrPasswordNotChanged):
				render.ServiceError(w, "New password must differ from the old one", http.StatusBadRequest)
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				render.ServiceError(w, "Invalid user credentials", http.StatusUnauthorized)
			default:
				l.Error("change password failed", "error", err, "user_id", user.ID)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{Message: "Password changed successfully"})
	})
}
