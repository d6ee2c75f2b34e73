/*
Copyright 2011 The Perkeep Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package osutil resolves the host-side paths the kernel-core CLI tools
// need for their own bookkeeping -- the installation database and its
// package cache -- the same way pkg/osutil resolves Perkeep's config and
// cache directories: an environment-variable override first, then a
// per-OS default.
package osutil

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// HomeDir returns the path to the user's home directory, or the empty
// string if it isn't known.
func HomeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}

var cacheDirOnce sync.Once

// CacheDir returns the directory pkgdb.kv (§6's installation database, see
// DefaultPkgDBPath) is kept under, creating it if necessary.
func CacheDir() string {
	cacheDirOnce.Do(makeCacheDir)
	return cacheDir()
}

func cacheDir() string {
	if d := os.Getenv("VISOPSYS_CACHE_DIR"); d != "" {
		return d
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(HomeDir(), "Library", "Caches", "visopsys")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return filepath.Join(v, "visopsys")
			}
		}
		panic("no Windows TEMP or TMP environment variable set")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "visopsys")
	}
	return filepath.Join(HomeDir(), ".cache", "visopsys")
}

func makeCacheDir() {
	if err := os.MkdirAll(cacheDir(), 0700); err != nil {
		log.Fatalf("osutil: could not create cache dir %v: %v", cacheDir(), err)
	}
}

// DefaultPkgDBPath returns the default location of the installation
// database cmd/install and cmd/software open when -db isn't given.
func DefaultPkgDBPath() string {
	return filepath.Join(CacheDir(), "pkgdb.kv")
}
