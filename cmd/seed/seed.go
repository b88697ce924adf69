package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type seedUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type seedQuote struct {
	Section     string `yaml:"section"`
	Quote       string `yaml:"quote"`
	Author      string `yaml:"author"`
	Explanation string `yaml:"explanation"`
}

type seedFile struct {
	User   seedUser    `yaml:"user"`
	Quotes []seedQuote `yaml:"quotes"`
}

func parseSeed(r io.Reader) (*seedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f seedFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if f.User.Email == "" {
		return nil, fmt.Errorf("seed file: user.email is required")
	}
	return &f, nil
}
