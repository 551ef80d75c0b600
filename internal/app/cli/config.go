package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wot-oss/resx/internal/config"
	"github.com/wot-oss/resx/internal/types"
)

// SettableKeys are the configuration keys which may be set with the config command
var SettableKeys = []string{
	config.KeyBasePath,
	config.KeyCandidates,
	config.KeyLogLevel,
	config.KeyS3Region,
	config.KeyS3Endpoint,
}

// ConfigSet validates value and stores it under key in the config file. Candidates are given as a list of
// assembly display names separated by ';'.
func ConfigSet(key, value string) error {
	if !slices.Contains(SettableKeys, key) {
		err := fmt.Errorf("unknown config key %q", key)
		Stderrf("%v. Valid keys are: %s", err, strings.Join(SettableKeys, ", "))
		return err
	}
	var v any = value
	if key == config.KeyCandidates {
		var cands []string
		for _, c := range strings.Split(value, ";") {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			if _, err := types.ParseIdentity(c); err != nil {
				Stderrf("Invalid candidate assembly: %v", err)
				return err
			}
			cands = append(cands, c)
		}
		v = cands
	}
	if err := config.Save(key, v); err != nil {
		Stderrf("Could not save config: %v", err)
		return err
	}
	return nil
}

func ConfigUnset(key string) error {
	if err := config.Delete(key); err != nil {
		Stderrf("Could not save config: %v", err)
		return err
	}
	return nil
}
