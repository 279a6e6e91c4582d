package tools

import (
	"strings"

	"github.com/BurntSushi/toml"
)

type ConfigMap struct {
	FilePath       string
	Pointer        interface{}
	LoadedCallBack func(*ConfigMap, error)
}

// InitTomlConfigs decodes each file into its pointer. Path selection is the
// caller's concern (cobra owns the flags), so no flag parsing happens here.
func InitTomlConfigs(cm []*ConfigMap) {
	for _, configMap := range cm {
		configMap.FilePath = strings.Trim(configMap.FilePath, " ")
		err := DecodeToml(configMap.FilePath, configMap.Pointer)
		if configMap.LoadedCallBack != nil {
			configMap.LoadedCallBack(configMap, err)
		}
	}
}

func DecodeToml(filepath string, pointer interface{}) error {
	_, err := toml.DecodeFile(filepath, pointer)
	return err
}
