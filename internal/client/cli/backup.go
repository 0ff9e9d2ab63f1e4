package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitrinex/vitrinex/internal/common"
)

// Backup asks for a passphrase twice and uploads a sealed snapshot.
func (a *App) Backup(ctx context.Context, _ []string) error {
	pass, err := GetPassword("Backup passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	again, err := GetPassword("Repeat passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if string(pass) != string(again) {
		return errors.New("passphrases do not match")
	}

	key, err := a.backups.Backup(ctx, pass)
	if err != nil {
		return err
	}
	printlnFn("Backup stored as", key)
	return nil
}

// Restore downloads a backup and writes it over the local store. The device
// key may change, so the cached one is dropped afterwards.
func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w, usage: restore <object>", errUsage)
	}

	pass, err := GetPassword("Backup passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	n, err := a.backups.Restore(ctx, args[0], pass)
	if err != nil {
		return err
	}
	a.store.ForgetKey()

	printlnFn(fmt.Sprintf("Restored %d entries", n))
	return nil
}
