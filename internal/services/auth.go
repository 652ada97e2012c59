package services

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/btmxh/folio/internal/auth"
	"github.com/btmxh/folio/internal/db"
	"golang.org/x/crypto/bcrypt"
)

const SessionTimeout = 12 * time.Hour

var invalidPasswordHashError = errors.New("Invalid password. Please try another one.")
var usernameAlreadyTakenError = errors.New("Username is already taken.")
var wrongCredentialsError = errors.New("Either username or password is incorrect.")
var tokenGenerationError = errors.New("Unable to generate login token. Please try again.")
var InvalidUsernameError = errors.New("Username must be between 3 and 50 characters long and can only contain letters, numbers, hyphens (-), and underscores (_).")
var InvalidPasswordError = errors.New("Password must be at least 8 characters long and at most 64 characters long.")

var usernameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]{3,50}$")

func ValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

func ValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 64
}

// CreateAdmin stores a new admin account with a bcrypt hash of password.
func CreateAdmin(tx *db.Tx, username, password string) (hasErr bool) {
	if !ValidUsername(username) {
		tx.PublicError(http.StatusUnprocessableEntity, InvalidUsernameError)
		return true
	}
	if !ValidPassword(password) {
		tx.PublicError(http.StatusUnprocessableEntity, InvalidPasswordError)
		return true
	}

	var hasRow bool
	var dummy int
	if tx.QueryRow("SELECT 1 FROM admins WHERE username = $1", username).Scan(&hasRow, &dummy) {
		return true
	}
	if hasRow {
		tx.PublicError(http.StatusUnprocessableEntity, usernameAlreadyTakenError)
		return true
	}

	passwordHashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		tx.PrivateError(err)
		tx.PublicError(http.StatusUnprocessableEntity, invalidPasswordHashError)
		return true
	}

	if tx.Exec(nil, "INSERT INTO admins (username, password_hashed) VALUES ($1, $2)", username, string(passwordHashed)) {
		return true
	}

	slog.Info("Admin account created", slog.String("username", username))
	return false
}

func LogIn(tx *db.Tx, username, password string) (signedToken string, timeout time.Duration, hasErr bool) {
	timeout = SessionTimeout

	var hasRow bool
	var hashed string
	if tx.QueryRow("SELECT password_hashed FROM admins WHERE username = $1", username).Scan(&hasRow, &hashed) {
		return signedToken, timeout, true
	}

	if !hasRow {
		tx.PublicError(http.StatusUnauthorized, wrongCredentialsError)
		return signedToken, timeout, true
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			tx.PublicError(http.StatusUnauthorized, wrongCredentialsError)
		} else {
			tx.PrivateError(err)
			tx.PublicError(http.StatusInternalServerError, tokenGenerationError)
		}
		return signedToken, timeout, true
	}

	signedToken, err := auth.Authorize(username, timeout)
	if err != nil {
		tx.PrivateError(err)
		tx.PublicError(http.StatusInternalServerError, tokenGenerationError)
		return signedToken, timeout, true
	}

	slog.Info("Admin authentication successful", slog.String("username", username))
	return signedToken, timeout, false
}
