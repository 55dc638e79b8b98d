package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// 派生产物的文件名标签
const (
	TagProcessed     = "processed"
	TagEnhanced      = "enhanced"
	TagThumbnail     = "thumb"
	TagSubtitles     = "subtitles"
	TagSummary       = "summary"
	TagVideoEnhanced = "video_enhanced"
	TagAudio         = "audio"
)

// derivedArtifacts 列出每个 stage 会在源文件旁写出的文件
var derivedArtifacts = []struct{ tag, ext string }{
	{TagProcessed, "mp4"},
	{TagEnhanced, "mp4"},
	{TagThumbnail, "jpg"},
	{TagSubtitles, "srt"},
	{TagSubtitles, "json"},
	{TagSummary, "txt"},
	{TagVideoEnhanced, "mp4"},
	{TagAudio, "wav"},
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// DerivePath returns <dir(source)>/<stem>_<tag>.<ext>. The same inputs always give
// the same path, so a rerun overwrites its previous artifact.
func DerivePath(source, tag, ext string) string {
	dir := filepath.Dir(source)
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", stem, tag, strings.TrimPrefix(ext, ".")))
}

// DerivedPaths lists every path a run can write for source, whether or not it exists.
func DerivedPaths(source string) []string {
	paths := make([]string, 0, len(derivedArtifacts))
	for _, a := range derivedArtifacts {
		paths = append(paths, DerivePath(source, a.tag, a.ext))
	}
	return paths
}

// SanitizeFilename keeps ASCII letters, digits and "._-"; whitespace becomes "_".
// Path separators are treated as whitespace so the result never escapes its dir.
func SanitizeFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" {
		return "video"
	}
	return name
}

// UniqueUploadPath returns a path in dir for an uploaded file. A numeric suffix is
// appended while the stem clashes with a file in dir (whatever its extension), either
// directly or through the <stem>_<tag> names of derived artifacts.
func UniqueUploadPath(dir, filename string) (string, error) {
	clean := SanitizeFilename(filename)
	ext := filepath.Ext(clean)
	stem := strings.TrimSuffix(clean, ext)
	if stem == "" {
		stem = "video"
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("read upload dir: %w", err)
	}
	taken := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		n := e.Name()
		taken[strings.TrimSuffix(n, filepath.Ext(n))] = struct{}{}
	}

	candidate := stem
	for i := 1; ; i++ {
		if !stemClashes(candidate, taken) {
			break
		}
		candidate = fmt.Sprintf("%s_%d", stem, i)
	}
	return filepath.Join(dir, candidate+ext), nil
}

// stemClashes reports whether candidate, or one of its artifacts, would land on an
// existing name, or whether candidate is itself an artifact name of an existing stem.
func stemClashes(candidate string, taken map[string]struct{}) bool {
	if _, ok := taken[candidate]; ok {
		return true
	}
	for _, a := range derivedArtifacts {
		suffix := "_" + a.tag
		if _, ok := taken[candidate+suffix]; ok {
			return true
		}
		if owner, ok := strings.CutSuffix(candidate, suffix); ok {
			if _, ok := taken[owner]; ok {
				return true
			}
		}
	}
	return false
}
