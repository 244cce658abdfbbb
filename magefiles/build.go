//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads modules and builds every package.
func (Build) All() error {
	if _, err := executeCmd("go", withArgs("mod", "download")); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("build", "./..."), withStream())
	return err
}

// Builds the game binary into bin/wayfare.
func (Build) Game() error {
	mg.Deps(Build.All)
	_, err := executeCmd("go", withArgs("build", "-o", "bin/wayfare", "./cmd/wayfare"), withStream())
	return err
}
