package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// promptLine prints a prompt and reads one trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptConfirm asks a yes/no question, defaulting to no.
func promptConfirm(question string) (bool, error) {
	input, err := promptLine(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
