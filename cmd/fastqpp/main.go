// Command fastqpp is a high-throughput preprocessor for short-read FASTQ
// sequencing data: filtering, trimming, adapter/UMI handling, optional
// paired-end merging, and JSON/HTML QC reports.
package main

import (
	"fmt"
	"os"

	"github.com/fastqpp/fastqpp/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "fastqpp:", err)
		os.Exit(1)
	}
}
