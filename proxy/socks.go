package socks

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/proxy"
)

// ParseUrl resolves a proxy url. A value starting with '$' is read from the named environment variable.
func ParseUrl(urlString string) (*url.URL, error) {

	if strings.HasPrefix(urlString, "$") {

		name := urlString[1:]

		val := os.Getenv(name)
		if val == "" {
			return nil, fmt.Errorf("url variable '%s' is not defined", name)
		}

		urlString = val
	}

	if urlString = strings.TrimSpace(urlString); urlString == "" {
		return nil, errors.New("empty proxy url")
	}

	proxyUrl, err := url.Parse(urlString)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %s", err.Error())
	}

	switch strings.ToLower(proxyUrl.Scheme) {
	case "socks", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("unsupported proxy protocol '%s'", proxyUrl.Scheme)
	}

	if proxyUrl.Hostname() == "" {
		return nil, errors.New("invalid proxy url: host name required")
	}

	if proxyUrl.Port() == "" {
		return nil, errors.New("invalid proxy url: port required")
	}

	return proxyUrl, nil
}

func NewDialer(urlString string) (proxy.ContextDialer, error) {

	proxyUrl, err := ParseUrl(urlString)
	if err != nil {
		return nil, err
	}

	var proxyAuth *proxy.Auth
	if username := proxyUrl.User.Username(); username != "" {

		proxyAuth = &proxy.Auth{User: username}

		if pass, has := proxyUrl.User.Password(); has {
			proxyAuth.Password = pass
		}
	}

	dialer, err := proxy.SOCKS5("tcp", proxyUrl.Host, proxyAuth, proxy.Direct)
	if err != nil {
		return nil, err
	}

	return dialer.(proxy.ContextDialer), nil
}
