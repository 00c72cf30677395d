package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/benithors/dotresolve/internal/domain"
	"github.com/benithors/dotresolve/internal/resolver"
)

type outputFormat int

const (
	formatTable outputFormat = iota
	formatJSON
)

func resolveFormat(flagVal string, stdout *os.File) outputFormat {
	switch strings.ToLower(strings.TrimSpace(flagVal)) {
	case "table":
		return formatTable
	case "json":
		return formatJSON
	case "auto", "":
	default:
		// Unknown format: fall back to auto.
	}

	if term.IsTerminal(int(stdout.Fd())) {
		return formatTable
	}
	return formatJSON
}

func writeResponse(w io.Writer, format outputFormat, resp *resolver.Response) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		return enc.Encode(resp)
	case formatTable:
		fallthrough
	default:
		domains := make([]string, 0, len(resp.Results))
		for d := range resp.Results {
			domains = append(domains, d)
		}
		sort.Strings(domains)

		tw := domain.NewTabWriter(w)
		if len(resp.PremiumPrices) > 0 {
			fmt.Fprintln(tw, "DOMAIN\tSTATUS\tPREMIUM\tSOURCE")
			for _, d := range domains {
				premium := ""
				if price, ok := resp.PremiumPrices[d]; ok {
					premium = fmt.Sprintf("%.2f", price)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d, resp.Results[d], premium, resp.Source)
			}
		} else {
			fmt.Fprintln(tw, "DOMAIN\tSTATUS\tSOURCE")
			for _, d := range domains {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d, resp.Results[d], resp.Source)
			}
		}
		return tw.Flush()
	}
}
