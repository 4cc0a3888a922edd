package setup

import (
	"boca-cli/internal/access"
)

const baseSchemaUrl = "boca://setup/base.json"

// every method schema is composed out of these fragments
const baseSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "id": {"type": "string", "pattern": "^[0-9]+$"},
    "date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}[T ][0-9]{2}:[0-9]{2}(:[0-9]{2})?$"},
    "path": {"type": "string", "minLength": 1},
    "config": {
      "type": "object",
      "required": ["url"],
      "properties": {
        "url": {"type": "string", "pattern": "^https?://"},
        "resultFilePath": {"$ref": "#/$defs/path"},
        "resultDbPath": {"$ref": "#/$defs/path"},
        "runPath": {"$ref": "#/$defs/path"},
        "userPath": {"$ref": "#/$defs/path"},
        "outReportDir": {"$ref": "#/$defs/path"},
        "problemPath": {"$ref": "#/$defs/path"}
      },
      "additionalProperties": false
    },
    "login": {
      "type": "object",
      "required": ["username", "password"],
      "properties": {
        "username": {"type": "string", "minLength": 1},
        "password": {"type": "string"}
      },
      "additionalProperties": false
    },
    "ref": {
      "type": "object",
      "required": ["id"],
      "properties": {"id": {"$ref": "#/$defs/id"}},
      "additionalProperties": false
    },
    "userRef": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "siteId": {"$ref": "#/$defs/id"}
      },
      "additionalProperties": false
    },
    "contestFields": {
      "type": "object",
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "name": {"type": "string", "minLength": 1},
        "startDate": {"$ref": "#/$defs/date"},
        "endDate": {"$ref": "#/$defs/date"},
        "stopAnswering": {"type": "integer", "minimum": 0},
        "stopScoreboard": {"type": "integer", "minimum": 0},
        "penalty": {"type": "integer", "minimum": 0},
        "maxFileSize": {"type": "integer", "minimum": 1},
        "mainSiteUrl": {"type": "string"},
        "mainSiteNumber": {"type": "integer", "minimum": 1},
        "localSiteNumber": {"type": "integer", "minimum": 1},
        "active": {"type": "boolean"}
      },
      "additionalProperties": false
    },
    "contest": {
      "allOf": [{"$ref": "#/$defs/contestFields"}],
      "required": ["name", "startDate", "endDate", "mainSiteNumber", "active"]
    },
    "contestPatch": {
      "allOf": [{"$ref": "#/$defs/contestFields"}],
      "required": ["id"]
    },
    "answerFields": {
      "type": "object",
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "description": {"type": "string", "minLength": 1},
        "shortName": {"type": "string", "minLength": 1},
        "yes": {"type": "boolean"}
      },
      "additionalProperties": false
    },
    "answer": {
      "allOf": [{"$ref": "#/$defs/answerFields"}],
      "required": ["id", "description", "shortName", "yes"]
    },
    "answerPatch": {
      "allOf": [{"$ref": "#/$defs/answerFields"}],
      "required": ["id"]
    },
    "languageFields": {
      "type": "object",
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "name": {"type": "string", "minLength": 1},
        "extension": {"type": "string", "minLength": 1}
      },
      "additionalProperties": false
    },
    "language": {
      "allOf": [{"$ref": "#/$defs/languageFields"}],
      "required": ["id", "name", "extension"]
    },
    "languagePatch": {
      "allOf": [{"$ref": "#/$defs/languageFields"}],
      "required": ["id"]
    },
    "problemFields": {
      "type": "object",
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "name": {"type": "string", "minLength": 1},
        "filePath": {"$ref": "#/$defs/path"},
        "colorName": {"type": "string"},
        "color": {"type": "string", "pattern": "^[0-9a-fA-F]{6}$"}
      },
      "additionalProperties": false
    },
    "problem": {
      "allOf": [{"$ref": "#/$defs/problemFields"}],
      "required": ["id", "name", "filePath"]
    },
    "problemPatch": {
      "allOf": [{"$ref": "#/$defs/problemFields"}],
      "required": ["id"]
    },
    "siteFields": {
      "type": "object",
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "name": {"type": "string", "minLength": 1},
        "ip": {"type": "string"},
        "duration": {"type": "integer", "minimum": 1},
        "stopAnswering": {"type": "integer", "minimum": 0},
        "stopScoreboard": {"type": "integer", "minimum": 0},
        "chiefJudge": {"type": "string"},
        "active": {"type": "boolean"},
        "autoEnd": {"type": "boolean"},
        "autoJudge": {"type": "boolean"},
        "globalScore": {"type": "string"},
        "scoreLevel": {"type": "integer", "minimum": -4, "maximum": 4}
      },
      "additionalProperties": false
    },
    "site": {
      "allOf": [{"$ref": "#/$defs/siteFields"}],
      "required": ["id", "name"]
    },
    "sitePatch": {
      "allOf": [{"$ref": "#/$defs/siteFields"}],
      "required": ["id"]
    },
    "userFields": {
      "type": "object",
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "siteId": {"$ref": "#/$defs/id"},
        "username": {"type": "string", "minLength": 1},
        "type": {"enum": ["Team", "Judge", "Admin", "Staff", "Score", "Site"]},
        "enabled": {"type": "boolean"},
        "multiLogin": {"type": "boolean"},
        "fullName": {"type": "string"},
        "description": {"type": "string"},
        "ip": {"type": "string"},
        "password": {"type": "string"}
      },
      "additionalProperties": false
    },
    "user": {
      "allOf": [{"$ref": "#/$defs/userFields"}],
      "required": ["id", "username", "type", "fullName", "description"]
    },
    "userPatch": {
      "allOf": [{"$ref": "#/$defs/userFields"}],
      "required": ["id"]
    },
    "runQuery": {
      "type": "object",
      "required": ["id"],
      "properties": {"id": {"$ref": "#/$defs/id"}},
      "additionalProperties": false
    },
    "submission": {
      "type": "object",
      "required": ["problem", "language", "filePath"],
      "properties": {
        "problem": {"type": "string", "minLength": 1},
        "language": {"type": "string", "minLength": 1},
        "filePath": {"$ref": "#/$defs/path"}
      },
      "additionalProperties": false
    }
  }
}`

// shape declares what a method needs on top of config.url and login.
type shape struct {
	// top level key of the resource payload, empty when the method has none
	resource string
	// name of the fragment in baseSchema the payload must match
	def string
	// payload is an array of def, elements are validated one by one
	bulk bool
	// config fields the method reads besides url
	config []string
}

var shapes = map[access.Method]shape{
	access.ActivateContest: {resource: "contest", def: "ref"},
	access.CreateContest:   {resource: "contest", def: "contest"},
	access.GetContest:      {resource: "contest", def: "ref"},
	access.GetContests:     {},
	access.UpdateContest:   {resource: "contest", def: "contestPatch"},

	access.CreateAnswer:  {resource: "answer", def: "answer"},
	access.DeleteAnswer:  {resource: "answer", def: "ref"},
	access.DeleteAnswers: {resource: "answers", def: "ref", bulk: true},
	access.GetAnswer:     {resource: "answer", def: "ref"},
	access.GetAnswers:    {},
	access.UpdateAnswer:  {resource: "answer", def: "answerPatch"},

	access.CreateLanguage:  {resource: "language", def: "language"},
	access.DeleteLanguage:  {resource: "language", def: "ref"},
	access.DeleteLanguages: {resource: "languages", def: "ref", bulk: true},
	access.GetLanguage:     {resource: "language", def: "ref"},
	access.GetLanguages:    {},
	access.UpdateLanguage:  {resource: "language", def: "languagePatch"},

	access.CreateProblem:   {resource: "problem", def: "problem"},
	access.DeleteProblem:   {resource: "problem", def: "ref"},
	access.DeleteProblems:  {resource: "problems", def: "ref", bulk: true},
	access.DisableProblem:  {resource: "problem", def: "ref"},
	access.DisableProblems: {resource: "problems", def: "ref", bulk: true},
	access.DownloadProblem: {resource: "problem", def: "ref", config: []string{"problemPath"}},
	access.EnableProblem:   {resource: "problem", def: "ref"},
	access.EnableProblems:  {resource: "problems", def: "ref", bulk: true},
	access.GetProblem:      {resource: "problem", def: "ref"},
	access.GetProblems:     {},
	access.RestoreProblem:  {resource: "problem", def: "ref"},
	access.RestoreProblems: {resource: "problems", def: "ref", bulk: true},
	access.UpdateProblem:   {resource: "problem", def: "problemPatch"},

	access.CreateSite:       {resource: "site", def: "site"},
	access.DisableLoginSite: {resource: "site", def: "ref"},
	access.EnableLoginSite:  {resource: "site", def: "ref"},
	access.GetSite:          {resource: "site", def: "ref"},
	access.GetSites:         {},
	access.ForceLogoffSite:  {resource: "site", def: "ref"},
	access.UpdateSite:       {resource: "site", def: "sitePatch"},

	access.CreateUser:   {resource: "user", def: "user"},
	access.DeleteUser:   {resource: "user", def: "userRef"},
	access.DeleteUsers:  {resource: "users", def: "userRef", bulk: true},
	access.DisableUser:  {resource: "user", def: "userRef"},
	access.DisableUsers: {resource: "users", def: "userRef", bulk: true},
	access.EnableUser:   {resource: "user", def: "userRef"},
	access.EnableUsers:  {resource: "users", def: "userRef", bulk: true},
	access.GetUser:      {resource: "user", def: "userRef"},
	access.GetUsers:     {},
	access.ImportUsers:  {config: []string{"userPath"}},
	access.RestoreUser:  {resource: "user", def: "userRef"},
	access.RestoreUsers: {resource: "users", def: "userRef", bulk: true},
	access.UpdateUser:   {resource: "user", def: "userPatch"},

	access.DownloadRuns:   {config: []string{"runPath"}},
	access.DownloadRun:    {resource: "run", def: "runQuery", config: []string{"runPath"}},
	access.GetRun:         {resource: "run", def: "runQuery"},
	access.GetRuns:        {},
	access.SubmitRun:      {resource: "run", def: "submission"},
	access.GenerateReport: {config: []string{"outReportDir"}},
}

func (s shape) document() map[string]any {
	config := map[string]any{"$ref": "base.json#/$defs/config"}
	if len(s.config) > 0 {
		config = map[string]any{
			"allOf":    []any{map[string]any{"$ref": "base.json#/$defs/config"}},
			"required": append([]string{"url"}, s.config...),
		}
	}

	required := []string{"config", "login"}
	properties := map[string]any{
		"config": config,
		"login":  map[string]any{"$ref": "base.json#/$defs/login"},
	}
	if s.resource != "" {
		required = append(required, s.resource)
		if s.bulk {
			properties[s.resource] = map[string]any{"type": "array"}
		} else {
			properties[s.resource] = map[string]any{"$ref": "base.json#/$defs/" + s.def}
		}
	}

	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"required":   required,
		"properties": properties,
	}
}
