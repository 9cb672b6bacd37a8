package cmn

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceSuffixes are the file names picked up while walking a directory.
var SourceSuffixes = []string{".yml", ".yaml"}

func sourceWanted(name string) bool {
	for _, s := range SourceSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

/*
	ParserIterateOverSource calls cb with the content of sourcePath or, for a
	directory, of every definition file beneath it in lexical order.
	a file named explicitly is read whatever its suffix.
*/
func ParserIterateOverSource(
	sourcePath string,
	cb func(path string, fc []byte, args interface{}) error,
	args interface{}) error {

	fi, err := os.Stat(sourcePath)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return parserReadSource(sourcePath, cb, args)
	}

	var files []string
	err = filepath.WalkDir(sourcePath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && sourceWanted(d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, f := range files {
		if err = parserReadSource(f, cb, args); err != nil {
			return err
		}
	}
	return nil
}

func parserReadSource(p string, cb func(string, []byte, interface{}) error, args interface{}) error {
	fc, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	if len(fc) == 0 {
		return fmt.Errorf("%s - empty file content", p)
	}
	return cb(p, fc, args)
}
