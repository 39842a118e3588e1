package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

type FileConfig struct {
	Port     int      `yaml:"port"`
	Root     string   `yaml:"root"`
	MaxAge   string   `yaml:"maxAge"`
	Provider string   `yaml:"provider"`
	Index    []string `yaml:"index"`
	NoCache  bool     `yaml:"noCache"`
}

func getConfig(filename string) (FileConfig, error) {
	var config FileConfig
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}
