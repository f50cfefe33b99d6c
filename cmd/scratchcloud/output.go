package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aussiebroadwan/scratchcloud/pkg/scratchsdk"
	"github.com/gosuri/uitable"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func validateOutputFormat(outputFormat string) error {
	switch outputFormat {
	case outputTable, outputJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q", outputFormat)
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writeIdentity(w io.Writer, output string, s *scratchsdk.Session) error {
	id := s.Identity()
	if output == outputJSON {
		return writeJSON(w, struct {
			scratchsdk.Identity
			State string
		}{id, s.State().String()})
	}

	table := uitable.New()
	table.AddRow("ID", "USERNAME", "JOINED", "ROLES", "BANNED", "STATE")
	table.AddRow(id.ID, id.Username, id.DateJoined, roleList(id.Roles), id.Banned, s.State())
	_, err := fmt.Fprintln(w, table)
	return err
}

func roleList(r scratchsdk.Roles) string {
	var roles []string
	for _, role := range []struct {
		on   bool
		name string
	}{
		{r.Admin, "admin"},
		{r.VerifiedMember, "scratcher"},
		{r.NewMember, "new scratcher"},
		{r.Educator, "educator"},
		{r.Student, "student"},
	} {
		if role.on {
			roles = append(roles, role.name)
		}
	}
	if len(roles) == 0 {
		return "-"
	}
	return strings.Join(roles, ", ")
}
