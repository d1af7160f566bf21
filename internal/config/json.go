package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonKDF struct {
	Type        string `json:"type"`
	Iterations  int    `json:"iterations"`
	Memory      int    `json:"memory"`
	Parallelism int    `json:"parallelism"`
}

func (k jsonKDF) toKDF() KDF {
	return KDF{
		Type:        k.Type,
		Iterations:  k.Iterations,
		Memory:      k.Memory,
		Parallelism: k.Parallelism,
	}
}

// StructuredJSONConfig is the on-disk JSON layout of the config file.
type StructuredJSONConfig struct {
	App struct {
		Name     string `json:"name"`
		LogLevel string `json:"log_level"`
		LogFile  string `json:"log_file"`
	} `json:"app,omitempty"`

	KDF jsonKDF `json:"kdf,omitempty"`

	Crypto struct {
		Cipher string `json:"cipher"`
	} `json:"crypto,omitempty"`

	Export struct {
		KDF      jsonKDF `json:"kdf"`
		Encoding string  `json:"encoding"`
	} `json:"export,omitempty"`

	Generator struct {
		Length         int    `json:"length"`
		ExcludeSimilar bool   `json:"exclude_similar"`
		Words          int    `json:"words"`
		Separator      string `json:"separator"`
	} `json:"generator,omitempty"`

	Session struct {
		AutoLock         Duration `json:"auto_lock"`
		UnlockBackoff    Duration `json:"unlock_backoff"`
		UnlockBackoffMax Duration `json:"unlock_backoff_max"`
	} `json:"session,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Name:     jsonCfg.App.Name,
			LogLevel: jsonCfg.App.LogLevel,
			LogFile:  jsonCfg.App.LogFile,
		},
		KDF:    jsonCfg.KDF.toKDF(),
		Crypto: Crypto{Cipher: jsonCfg.Crypto.Cipher},
		Export: Export{
			KDF:      jsonCfg.Export.KDF.toKDF(),
			Encoding: jsonCfg.Export.Encoding,
		},
		Generator: Generator{
			Length:         jsonCfg.Generator.Length,
			ExcludeSimilar: jsonCfg.Generator.ExcludeSimilar,
			Words:          jsonCfg.Generator.Words,
			Separator:      jsonCfg.Generator.Separator,
		},
		Session: Session{
			AutoLock:         time.Duration(jsonCfg.Session.AutoLock),
			UnlockBackoff:    time.Duration(jsonCfg.Session.UnlockBackoff),
			UnlockBackoffMax: time.Duration(jsonCfg.Session.UnlockBackoffMax),
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
