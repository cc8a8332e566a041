package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// dataFlags are the data source flags shared by render, eval and repl
type dataFlags struct {
	dataJSON     string
	dataFilePath string
}

func (d *dataFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&d.dataJSON, FlagData, "", "")
	fs.StringVar(&d.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&d.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&d.dataFilePath, FlagDataFileShort, "", "")
}

func (d *dataFlags) load() (map[string]any, error) {
	return loadData(d.dataJSON, d.dataFilePath)
}

// loadData reads render data from a JSON string or a data file. The file
// format follows its extension. No data yields an empty map.
func loadData(jsonStr, filePath string) (map[string]any, error) {
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		return decodeData(data, strings.ToLower(filepath.Ext(filePath)))
	}
	if jsonStr != "" {
		return decodeData([]byte(jsonStr), ExtJSON)
	}
	return make(map[string]any), nil
}

func decodeData(data []byte, ext string) (map[string]any, error) {
	result := make(map[string]any)

	switch ext {
	case ExtJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&result); err != nil {
			return nil, err
		}
		return normalizeJSON(result).(map[string]any), nil
	case ExtYAML, ExtYML:
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, err
		}
	case ExtTOML:
		if err := toml.Unmarshal(data, &result); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(ErrMsgUnknownDataFormat)
	}
	return result, nil
}

// normalizeJSON turns json.Number into int64 where the literal is integral,
// so `{"n": 3}` renders as 3 rather than 3.0.
func normalizeJSON(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeJSON(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalizeJSON(item)
		}
		return val
	default:
		return v
	}
}

// newLogger returns a development logger writing to w when verbose is set,
// otherwise a no-op logger.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core, zap.Development())
}
