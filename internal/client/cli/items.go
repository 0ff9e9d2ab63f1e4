package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/vitrinex/vitrinex/internal/client/securestore"
	"github.com/vitrinex/vitrinex/internal/common"
	"github.com/vitrinex/vitrinex/internal/filex"
)

var errReservedKey = errors.New("key is reserved")

func keyArg(args []string, usage string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("%w, usage: %s", errUsage, usage)
	}
	return args[0], nil
}

// Set prompts for a value and stores it encrypted. Input that is valid JSON
// is stored as is, anything else as a JSON string.
func (a *App) Set(ctx context.Context, args []string) error {
	key, err := keyArg(args, "set <key>")
	if err != nil {
		return err
	}
	if key == securestore.DeviceKeyName {
		return fmt.Errorf("%w: %s", errReservedKey, key)
	}

	text, err := GetMultiline(a.reader, "Value (JSON, or plain text)", a.out)
	if err != nil {
		return err
	}

	var value any = text
	if json.Valid([]byte(text)) {
		value = json.RawMessage(text)
	}

	if err := a.store.SetItem(ctx, key, value); err != nil {
		return err
	}
	printlnFn("Saved", key)
	return nil
}

func (a *App) readJSON(ctx context.Context, key string) ([]byte, bool, error) {
	var raw json.RawMessage
	found, err := a.store.GetItem(ctx, key, &raw)
	if err != nil || !found {
		return nil, found, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return raw, true, nil
	}
	return buf.Bytes(), true, nil
}

func (a *App) Get(ctx context.Context, args []string) error {
	key, err := keyArg(args, "get <key>")
	if err != nil {
		return err
	}

	value, found, err := a.readJSON(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		printlnFn("(not found)")
		return nil
	}
	printlnFn(string(value))
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	key, err := keyArg(args, "rm <key>")
	if err != nil {
		return err
	}
	if key == securestore.DeviceKeyName {
		return fmt.Errorf("%w: %s", errReservedKey, key)
	}
	if err := a.store.RemoveItem(ctx, key); err != nil {
		return err
	}
	printlnFn("Removed", key)
	return nil
}

// Keys lists stored keys, marking encrypted ones and well-known feature keys.
func (a *App) Keys(ctx context.Context, _ []string) error {
	keys, err := a.store.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		printlnFn("(empty)")
		return nil
	}

	for _, k := range keys {
		enc, err := a.store.IsEncrypted(ctx, k)
		if err != nil {
			return err
		}
		mark := "plain"
		if enc {
			mark = "encrypted"
		}
		if slices.Contains(common.FeatureKeys, k) {
			mark += ", feature"
		}
		printlnFn(fmt.Sprintf("  %s [%s]", k, mark))
	}
	return nil
}

// Export writes the decrypted value of a key into the working directory
// without overwriting existing files.
func (a *App) Export(ctx context.Context, args []string) error {
	key, err := keyArg(args, "export <key> [file]")
	if err != nil {
		return err
	}
	filename := key + ".json"
	if len(args) > 1 {
		filename = args[1]
	}

	value, found, err := a.readJSON(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s: %w", key, common.ErrNotFound)
	}

	res := filex.SaveFile(a.workDir, string(value), filename)
	if !res.Success {
		return errors.New(res.Error)
	}
	printlnFn("Written to", res.Path)
	return nil
}
