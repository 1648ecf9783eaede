// Package main provides resumectl, an offline front end to the resume analysis pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resumectl",
	Short: "Analyze resumes and match them to job roles from the command line",
	Long:  "resumectl runs the resume analysis pipeline on a local PDF or DOCX file without a database. Job matching requires GEMINI_API_KEY.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
