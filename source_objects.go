package main

import (
	"fmt"
	"regexp"
	"strings"
)

// SourceObjects holds non-table objects found in a dump. They pass through
// the rewrite unchanged and need manual migration.
type SourceObjects struct {
	Views    []string
	Routines []string
	Triggers []string
}

var sourceObjectRe = regexp.MustCompile(`(?i)^CREATE\s+(?:OR\s+REPLACE\s+)?(?:ALGORITHM\s*=\s*\w+\s+)?(?:DEFINER\s*=\s*\S+\s+)?(?:SQL\s+SECURITY\s+\w+\s+)?(VIEW|PROCEDURE|FUNCTION|TRIGGER|EVENT)\s+(?:IF\s+NOT\s+EXISTS\s+)?((?:` + identPattern + `\s*\.\s*)?` + identPattern + `)`)

// collectSourceObjects classifies unrecognized statements that create views,
// routines or triggers.
func collectSourceObjects(unrecognized []string) *SourceObjects {
	objs := &SourceObjects{}
	for _, code := range unrecognized {
		m := sourceObjectRe.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		name := tableNameOf(m[2])
		switch strings.ToUpper(m[1]) {
		case "VIEW":
			objs.Views = append(objs.Views, name)
		case "TRIGGER":
			objs.Triggers = append(objs.Triggers, name)
		default:
			objs.Routines = append(objs.Routines, name)
		}
	}
	return objs
}

func sourceObjectWarnings(objs *SourceObjects) []string {
	if objs == nil {
		return nil
	}
	if len(objs.Views) == 0 && len(objs.Routines) == 0 && len(objs.Triggers) == 0 {
		return nil
	}

	warnings := []string{fmt.Sprintf(
		"dump contains non-table objects that are passed through unconverted (%d views, %d routines, %d triggers)",
		len(objs.Views), len(objs.Routines), len(objs.Triggers),
	)}
	for _, v := range objs.Views {
		warnings = append(warnings, fmt.Sprintf("view: %s", v))
	}
	for _, r := range objs.Routines {
		warnings = append(warnings, fmt.Sprintf("routine: %s", r))
	}
	for _, t := range objs.Triggers {
		warnings = append(warnings, fmt.Sprintf("trigger: %s", t))
	}
	return warnings
}
