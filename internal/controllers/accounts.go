package controllers

import (
	"errors"
	"fmt"

	"github.com/outracoisa/filmoteca/internal/models"
	"github.com/sirupsen/logrus"
)

// AccountController registers and authenticates users against the local
// store. Username uniqueness is enforced by a pre-check here, not by a
// storage-level constraint.
type AccountController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewAccountController creates a new account controller
func NewAccountController(db *models.Database, logger *logrus.Logger) *AccountController {
	return &AccountController{
		db:     db,
		logger: logger,
	}
}

// Register creates a new account. Returns ErrAlreadyExists when the
// username is taken.
func (c *AccountController) Register(username, password, name string) (*models.Account, error) {
	_, err := c.db.GetAccountByUsername(username)
	if err == nil {
		return nil, models.ErrAlreadyExists
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	account := &models.Account{
		Username: username,
		Password: password,
		Name:     name,
	}
	if err := c.db.CreateAccount(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"account_id": account.ID,
		"username":   account.Username,
	}).Info("Account registered")

	return account, nil
}

// Login looks up the account matching username and password exactly.
// Returns ErrInvalidCredentials when no row matches.
func (c *AccountController) Login(username, password string) (*models.Account, error) {
	account, err := c.db.GetAccountByCredentials(username, password)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	c.logger.WithField("username", account.Username).Debug("Login succeeded")
	return account, nil
}

// GetAccountByID retrieves an account by id
func (c *AccountController) GetAccountByID(id uint64) (*models.Account, error) {
	return c.db.GetAccountByID(id)
}
