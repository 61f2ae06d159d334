package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExpandInputs resolves a mixed list of files and directories into the
// flat list of image files to import. Directories recurse only in
// recursive mode; otherwise a directory argument is a fatal input error
// for that item. An explicit file argument without a recognized image
// extension is a fatal input error; inside a recursive walk, files with
// other extensions are simply not media and are ignored. An empty
// directory is reported and skipped without aborting the batch.
func ExpandInputs(inputs []string, recursive bool, cfg *Config) ([]string, []ImportResult) {
	var files []string
	var failed []ImportResult

	for _, input := range inputs {
		fi, err := os.Stat(input)
		if err != nil {
			failed = append(failed, ImportResult{
				Source: input,
				Err:    inputError(input, err),
			})
			continue
		}

		if !fi.IsDir() {
			if !cfg.RecognizedExt(input) {
				failed = append(failed, ImportResult{
					Source: input,
					Err:    inputError(input, fmt.Errorf("unrecognized image extension")),
				})
				continue
			}
			files = append(files, input)
			continue
		}

		if !recursive {
			failed = append(failed, ImportResult{
				Source: input,
				Err:    inputError(input, fmt.Errorf("is a directory (use --recursive)")),
			})
			continue
		}

		found, err := scanImageFiles(input, cfg)
		if err != nil {
			failed = append(failed, ImportResult{
				Source: input,
				Err:    ioError(input, err),
			})
			continue
		}
		if len(found) == 0 {
			fmt.Printf("No image files found in %s\n", input)
			continue
		}
		files = append(files, found...)
	}

	return files, failed
}

// scanImageFiles walks a directory recursively collecting files with a
// recognized image extension.
func scanImageFiles(dir string, cfg *Config) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if cfg.RecognizedExt(info.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning files: %w", err)
	}
	return files, nil
}
