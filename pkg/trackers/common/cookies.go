package common

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// ParseCookieFile reads a cookie file in either Netscape export format
// (seven tab-separated columns) or simple name=value lines. Comment and
// blank lines are skipped.
func ParseCookieFile(path string) ([]*http.Cookie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cookie file: %w", err)
	}
	defer f.Close()

	var cookies []*http.Cookie
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if fields := strings.Split(line, "\t"); len(fields) >= 7 {
			cookies = append(cookies, &http.Cookie{
				Domain: fields[0],
				Path:   fields[2],
				Secure: strings.EqualFold(fields[3], "TRUE"),
				Name:   fields[5],
				Value:  fields[6],
			})
			continue
		}

		if name, value, ok := strings.Cut(line, "="); ok {
			cookies = append(cookies, &http.Cookie{
				Name:  strings.TrimSpace(name),
				Value: strings.TrimSpace(value),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cookie file: %w", err)
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("cookie file %s contains no cookies", path)
	}
	return cookies, nil
}
