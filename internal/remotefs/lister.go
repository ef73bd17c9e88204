package remotefs

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/droidlink/droidlink/internal/logging"
	"github.com/droidlink/droidlink/internal/util/sanitize"
	"github.com/droidlink/droidlink/internal/validation"
)

// lineFormat is one known shape of `ls -la` output. Formats are tried in
// order; the first match wins. Adding support for a new device build is one
// entry here plus a test case.
type lineFormat struct {
	name     string
	re       *regexp.Regexp
	hasGroup bool
}

// The listing formats observed in the wild. Toybox and newer toolbox builds
// print ISO dates with a group column; older builds drop the group or use
// the classic "Mon DD" date shapes.
var lineFormats = []lineFormat{
	{
		name:     "group+iso",
		re:       regexp.MustCompile(`^(?P<perms>\S+)\s+(?P<links>\d+)\s+(?P<owner>\S+)\s+(?P<group>\S+)\s+(?P<size>\S+)\s+(?P<date>\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2})\s+(?P<name>.+)$`),
		hasGroup: true,
	},
	{
		name:     "group+monthday-time",
		re:       regexp.MustCompile(`^(?P<perms>\S+)\s+(?P<links>\d+)\s+(?P<owner>\S+)\s+(?P<group>\S+)\s+(?P<size>\S+)\s+(?P<date>\w{3}\s+\d{1,2}\s+\d{2}:\d{2})\s+(?P<name>.+)$`),
		hasGroup: true,
	},
	{
		name:     "group+monthday-year",
		re:       regexp.MustCompile(`^(?P<perms>\S+)\s+(?P<links>\d+)\s+(?P<owner>\S+)\s+(?P<group>\S+)\s+(?P<size>\S+)\s+(?P<date>\w{3}\s+\d{1,2}\s+\d{4})\s+(?P<name>.+)$`),
		hasGroup: true,
	},
	{
		name:     "nogroup+iso",
		re:       regexp.MustCompile(`^(?P<perms>\S+)\s+(?P<links>\d+)\s+(?P<owner>\S+)\s+(?P<size>\S+)\s+(?P<date>\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2})\s+(?P<name>.+)$`),
		hasGroup: false,
	},
}

// ParseListing parses raw `ls -la` output for the directory dir into
// entries. Lines matching no known format are dropped with a diagnostic,
// never treated as fatal; `.` and `..` are excluded. Ordering is whatever
// the remote shell produced — callers wanting a display order sort
// themselves.
func ParseListing(output, dir string, log *logging.Logger) []Entry {
	var entries []Entry

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "total ") {
			continue
		}

		entry, ok := parseLine(line, dir)
		if !ok {
			if log != nil {
				log.Debug().Str("line", line).Msg("listing line matched no known format")
			}
			continue
		}
		if entry == nil {
			continue // "." or ".." or rejected name
		}
		entries = append(entries, *entry)
	}

	return entries
}

// parseLine tries each format in order. Returns (nil, true) for lines that
// parsed but must be excluded, (nil, false) for unparseable lines.
func parseLine(line, dir string) (*Entry, bool) {
	for _, format := range lineFormats {
		m := format.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		fields := make(map[string]string)
		for i, name := range format.re.SubexpNames() {
			if name != "" {
				fields[name] = m[i]
			}
		}

		name := strings.TrimSpace(fields["name"])
		// A " -> " in the name field denotes a symlink. Only the entry
		// name is kept; the inline target may be truncated by the shell,
		// so real targets are fetched on demand via readlink.
		if idx := strings.Index(name, " -> "); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}

		if name == "." || name == ".." {
			return nil, true
		}
		if err := validation.ValidateRemoteName(name); err != nil {
			return nil, true
		}

		entry := &Entry{
			Name:        name,
			FullPath:    sanitize.JoinRemote(dir, name),
			Kind:        KindFromPermissions(fields["perms"]),
			RawSize:     fields["size"],
			ModTime:     fields["date"],
			Permissions: fields["perms"],
			Owner:       fields["owner"],
		}
		if format.hasGroup {
			entry.Group = fields["group"]
		}
		if size, err := strconv.ParseUint(fields["size"], 10, 64); err == nil {
			entry.SizeBytes = size
			entry.SizeKnown = true
		}
		return entry, true
	}
	return nil, false
}
