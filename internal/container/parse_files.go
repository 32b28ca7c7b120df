// SPDX-License-Identifier: MPL-2.0

package container

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// statFormat is the stat(1) format the POSIX file operations request:
// raw mode in hex, links, gid, uid, size, atime, mtime, ctime, name.
const statFormat = "%f %h %g %u %s %X %Y %Z %n"

var (
	statLineRegex = regexp.MustCompile(
		`^([0-9a-fA-F]+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(.*)$`)

	dirLineRegex = regexp.MustCompile(
		`^(?P<mtime>(\d{1,2}[/.]\d{1,2}[/.]\d{4})\s+(\d{1,2}:\d{1,2}( (AM|PM))?))\s+` +
			`((?P<type><DIR>|<SYMLINKD>)|(?P<size>\d+))\s+(?P<name>.*)$`)

	dirDateLayouts = []string{"1/2/2006 3:04 PM", "1/2/2006 15:04", "2.1.2006 15:04"}
)

// ParseStatLine parses one line of stat output produced with statFormat.
// It reports false for lines of any other shape.
func ParseStatLine(line string) (ListFilesItem, bool) {
	m := statLineRegex.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return ListFilesItem{}, false
	}
	rawMode, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return ListFilesItem{}, false
	}
	size, _ := strconv.ParseInt(m[5], 10, 64)
	item := ListFilesItem{
		Name:  path.Base(m[9]),
		Path:  m[9],
		Type:  linuxFileType(uint32(rawMode)),
		Mode:  uint32(rawMode) & 0o7777,
		Size:  size,
		ATime: unixField(m[6]),
		MTime: unixField(m[7]),
		CTime: unixField(m[8]),
	}
	return item, true
}

func unixField(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}

// linuxFileType decodes the S_IFMT bits of a raw st_mode.
func linuxFileType(mode uint32) FileType {
	switch (mode & 0xf000) >> 12 {
	case 4:
		return FileTypeDirectory
	case 8:
		return FileTypeFile
	case 10:
		return FileTypeSymlink
	default:
		return FileTypeUnknown
	}
}

// ParseListFilesLinux parses the stat listing of dir. The "." and ".."
// entries are dropped, as is anything that is neither a directory nor a
// regular file.
func ParseListFilesLinux(dir, output string) []ListFilesItem {
	items := make([]ListFilesItem, 0)
	for line := range strings.SplitSeq(output, "\n") {
		item, ok := ParseStatLine(line)
		if !ok {
			continue
		}
		if item.Name == "." || item.Name == ".." {
			continue
		}
		if item.Type != FileTypeDirectory && item.Type != FileTypeFile {
			continue
		}
		item.Path = path.Join(dir, item.Name)
		items = append(items, item)
	}
	return items
}

// ParseDirLine parses one entry line of a Windows "dir /A-S /-C" listing.
// Lines that are not entries, such as headers and totals, report false.
func ParseDirLine(line string) (ListFilesItem, bool) {
	m := dirLineRegex.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return ListFilesItem{}, false
	}
	item := ListFilesItem{Name: m[dirLineRegex.SubexpIndex("name")]}
	switch strings.ToUpper(m[dirLineRegex.SubexpIndex("type")]) {
	case "":
		item.Type = FileTypeFile
		item.Size, _ = strconv.ParseInt(m[dirLineRegex.SubexpIndex("size")], 10, 64)
	case "<DIR>":
		item.Type = FileTypeDirectory
	case "<SYMLINKD>":
		item.Type = FileTypeSymlink
	default:
		item.Type = FileTypeUnknown
	}
	mtime := strings.Join(strings.Fields(m[dirLineRegex.SubexpIndex("mtime")]), " ")
	item.MTime, _ = ParseDate(mtime, dirDateLayouts...)
	return item, true
}

// ParseListFilesWindows parses a Windows dir listing of dir.
func ParseListFilesWindows(dir, output string) []ListFilesItem {
	items := make([]ListFilesItem, 0)
	for line := range strings.SplitSeq(output, "\n") {
		item, ok := ParseDirLine(line)
		if !ok {
			continue
		}
		if item.Name == "." || item.Name == ".." {
			continue
		}
		if item.Type != FileTypeDirectory && item.Type != FileTypeFile {
			continue
		}
		item.Path = windowsJoin(dir, item.Name)
		items = append(items, item)
	}
	return items
}

func windowsJoin(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimRight(dir, `\/`) + `\` + name
}

// windowsSplit splits a Windows path into its parent directory and base
// name. A drive root keeps its trailing separator.
func windowsSplit(p string) (string, string) {
	p = strings.TrimRight(p, `\/`)
	i := strings.LastIndexAny(p, `\/`)
	if i < 0 {
		return ".", p
	}
	dir := p[:i]
	if strings.HasSuffix(dir, ":") || dir == "" {
		dir += `\`
	}
	return dir, p[i+1:]
}
