package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tartampluch/go-age/internal/config"
	"github.com/zalando/go-keyring"
)

// ResolveCredentials returns the password for user: the environment
// variable wins, then the system keyring. A missing entry yields an empty
// password; some address books accept anonymous or user-only access.
func ResolveCredentials(user string) Credentials {
	creds := Credentials{User: user}
	if pass, ok := os.LookupEnv(config.EnvPassword); ok {
		creds.Password = pass
		return creds
	}
	if user == "" {
		return creds
	}

	pass, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompSource,
			config.LogKeyUser, user,
			config.LogKeyError, err,
		)
		return creds
	}
	creds.Password = pass
	return creds
}

// StorePassword saves the password for user in the system keyring.
func StorePassword(user, password string) error {
	if user == "" {
		return errors.New(config.ErrUserRequired)
	}
	if password == "" {
		return errors.New(config.ErrPasswordEmpty)
	}
	if err := keyring.Set(config.KeyringService, user, password); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringStore, err)
	}
	slog.Info(config.MsgPassStored,
		config.LogKeyComponent, config.CompSource,
		config.LogKeyUser, user,
	)
	return nil
}
