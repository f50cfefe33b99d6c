package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/scratchcloud/pkg/scratchsdk"
	"github.com/gosuri/uitable"
	"github.com/urfave/cli/v2"
)

func (rt *runtime) profile(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("profile requires one argument: USERNAME")
	}
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	profile, err := rt.client.GetUserProfile(c.Context, c.Args().First())
	if err != nil {
		return err
	}

	if output == outputJSON {
		return writeJSON(c.App.Writer, profile)
	}

	table := uitable.New()
	table.AddRow("ID", "USERNAME", "SCRATCH TEAM", "COUNTRY", "STATUS")
	table.AddRow(profile.ID, profile.Username, profile.ScratchTeam, profile.Profile.Country, profile.Profile.Status)
	fmt.Fprintln(c.App.Writer, table)
	return nil
}

// projectRow is the subset of a listing entry shown in the table.
type projectRow struct {
	PK     int64 `json:"pk"`
	Fields struct {
		Title       string `json:"title"`
		LoveCount   int    `json:"love_count"`
		ViewCount   int    `json:"view_count"`
		IsPublished bool   `json:"isPublished"`
	} `json:"fields"`
}

func (rt *runtime) projects(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("projects requires no arguments")
	}
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	s, _, err := rt.resume(c.Context, c.String(flagUsername))
	if err != nil {
		return err
	}

	items, err := s.GetMyStuffProjects(c.Context, scratchsdk.MyStuffQuery{
		Page:       c.Int(flagPage),
		SortBy:     c.String(flagSort),
		Filter:     c.String(flagFilter),
		Descending: c.String(flagSort) != "" && !c.Bool(flagAscending),
	})
	if err != nil {
		return err
	}

	if output == outputJSON {
		return writeJSON(c.App.Writer, items)
	}

	if len(items) == 0 {
		fmt.Fprintln(c.App.Writer, "No projects found.")
		return nil
	}

	table := uitable.New()
	table.AddRow("ID", "TITLE", "SHARED", "LOVES", "VIEWS")
	for _, raw := range items {
		var row projectRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return fmt.Errorf("error decoding project: %w", err)
		}
		table.AddRow(row.PK, row.Fields.Title, row.Fields.IsPublished, row.Fields.LoveCount, row.Fields.ViewCount)
	}
	fmt.Fprintln(c.App.Writer, table)
	return nil
}
