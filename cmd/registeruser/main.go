// Command registeruser creates an account on a running refdata instance.
// It prompts for name and email on stdin and reads the password without
// echoing it to the terminal.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

type registerResponse struct {
	Status  bool     `json:"status"`
	Message string   `json:"message"`
	Token   string   `json:"token"`
	Errors  []string `json:"errors"`
}

func main() {

	baseURL := flag.String("s", "http://localhost:8080", "refdata server base URL")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Enter name")
	name, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	name = strings.TrimSpace(name)

	fmt.Println("Enter email")
	email, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	email = strings.TrimSpace(email)

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	body, err := json.Marshal(map[string]string{
		"name":     name,
		"email":    email,
		"password": string(password),
	})
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(*baseURL+"/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	defer resp.Body.Close()

	var result registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	if !result.Status {
		for _, msg := range result.Errors {
			fmt.Println(msg)
		}
		os.Exit(1)
	}

	fmt.Println(result.Message)
	fmt.Println("Token:", result.Token)

}
