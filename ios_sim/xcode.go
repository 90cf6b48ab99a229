package ios_sim

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
)

// XcodeVersion returns the active Xcode version, e.g. `6.3` from `xcodebuild -version`
func XcodeVersion(ctx context.Context, run CommandRunner) (string, error) {
	if run == nil {
		run = execCommand
	}

	output, err := run(ctx, "xcodebuild", "-version")
	if err != nil {
		return "", fmt.Errorf("xcodebuild is not available or command failed - %w", err)
	}

	return parseXcodeVersion(output)
}

func parseXcodeVersion(output []byte) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "Xcode ") {
			return strings.TrimPrefix(line, "Xcode "), nil
		}
	}
	return "", fmt.Errorf("could not find Xcode version in `%s`", strings.TrimSpace(string(output)))
}
