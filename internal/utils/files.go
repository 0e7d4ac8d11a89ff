package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// SiblingPath returns a path next to src with suffix appended to the base
// name. ext replaces the original extension; empty keeps it.
//
//	SiblingPath("/d/d-sensor3.xlsx", "_trend", ".png") == "/d/d-sensor3_trend.png"
func SiblingPath(src, suffix, ext string) string {
	dir := filepath.Dir(src)
	base := filepath.Base(src)
	orig := filepath.Ext(base)
	if ext == "" {
		ext = orig
	}
	return filepath.Join(dir, strings.TrimSuffix(base, orig)+suffix+ext)
}

// FilteredPath names the output of a segment filter run after its parameters,
// e.g. d-sensor3_my_filter_th3_msegl4.xlsx.
func FilteredPath(src string, threshold float64, minLength int) string {
	suffix := "_my_filter_th" + strconv.FormatFloat(threshold, 'g', -1, 64) + "_msegl" + strconv.Itoa(minLength)
	return SiblingPath(src, suffix, "")
}
