package readelf

import (
	"fmt"
	"strconv"
	"strings"
)

// parseLoadAlignments extracts the Align column of every LOAD row from a
// program-header listing. Wide mode keeps each row on one line:
//
//	LOAD 0x000000 0x00000000 0x00000000 0x191c0 0x191c0 R E 0x4000
//
// Narrow mode splits the row, with the alignment ending the continuation:
//
//	LOAD 0x0000000000000000 0x0000000000000000 0x0000000000000000
//	     0x0000000000000938 0x0000000000000938  R E    0x200000
//
// A LOAD row whose alignment cannot be located in either shape makes the
// whole listing unparseable.
func parseLoadAlignments(out string) ([]uint64, error) {
	var aligns []uint64
	lines := strings.Split(out, "\n")

	for idx := 0; idx < len(lines); idx++ {
		fields := strings.Fields(lines[idx])
		if len(fields) == 0 || fields[0] != "LOAD" {
			continue
		}

		// Wide rows carry at least type, five numeric columns, one flag
		// token and the alignment.
		if len(fields) >= 8 {
			if v, err := parseAlignToken(fields[len(fields)-1]); err == nil {
				aligns = append(aligns, v)
				continue
			}
		}

		if idx+1 < len(lines) {
			cont := strings.Fields(lines[idx+1])
			if len(cont) > 0 {
				if v, err := parseAlignToken(cont[len(cont)-1]); err == nil {
					aligns = append(aligns, v)
					idx++
					continue
				}
			}
		}

		return nil, fmt.Errorf("unparseable LOAD entry: %q", strings.TrimSpace(lines[idx]))
	}

	return aligns, nil
}

// parseAlignToken accepts the 0x-prefixed hex readelf emits, plus bare
// decimal for tools that print small alignments unprefixed.
func parseAlignToken(tok string) (uint64, error) {
	tok = strings.ToLower(tok)
	if rest, ok := strings.CutPrefix(tok, "0x"); ok {
		return strconv.ParseUint(rest, 16, 64)
	}
	return strconv.ParseUint(tok, 10, 64)
}

// parseSymbolNames extracts the Name column from a symbol-table listing.
// Rows look like:
//
//	12: 0000000000001135  23 FUNC GLOBAL DEFAULT 14 ff_https_protocol
//
// Versioned names ("SSL_CTX_new@OPENSSL_3.0") are recorded without the
// version suffix. Header and separator lines lack the index column and are
// skipped; a listing without any rows yields an empty set, which is valid
// for stripped binaries.
func parseSymbolNames(out string) map[string]struct{} {
	names := make(map[string]struct{})

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 8 || !strings.HasSuffix(fields[0], ":") {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSuffix(fields[0], ":")); err != nil {
			continue
		}

		name := fields[7]
		if at := strings.IndexByte(name, '@'); at >= 0 {
			name = name[:at]
		}
		if name != "" {
			names[name] = struct{}{}
		}
	}

	return names
}
