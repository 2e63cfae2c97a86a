package spellfix

const openAPISpec = `{
  "openapi": "3.0.3",
  "info": {
    "title": "spellfix API",
    "description": "Grammar and spelling correction backed by a hosted language model. Offsets are half-open character (rune) offsets.",
    "version": "1.0.0"
  },
  "paths": {
    "/v1/check": {
      "post": {
        "summary": "Check text",
        "description": "Runs the text through the configured provider. Provider failures never fail the request; the result is marked degraded instead.",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": { "$ref": "#/components/schemas/CheckRequest" },
              "examples": {
                "basic": { "value": { "text": "I has a apple." } },
                "protected words": { "value": { "text": "Teh kubectl docs", "words": ["kubectl"] } },
                "timeout": { "value": { "text": "Long text...", "timeout": 30 } }
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Check result with rendered segments",
            "content": {
              "application/json": {
                "schema": { "$ref": "#/components/schemas/CheckResponse" },
                "example": {
                  "original": "I has a apple.",
                  "correctedText": "I have an apple.",
                  "editDistance": 3,
                  "charCount": 14,
                  "chunkCount": 1,
                  "errorCount": 2,
                  "degraded": false,
                  "corrections": [
                    { "original": "has", "suggestion": "have", "startIndex": 2, "endIndex": 5, "explanation": "Subject-verb agreement", "distance": 2 },
                    { "original": "a apple", "suggestion": "an apple", "startIndex": 6, "endIndex": 13, "explanation": "Article before a vowel", "distance": 1 }
                  ],
                  "segments": [
                    { "kind": "plain", "content": "I ", "startIndex": 0, "endIndex": 2 },
                    { "kind": "highlighted", "content": "has", "startIndex": 2, "endIndex": 5 },
                    { "kind": "plain", "content": " ", "startIndex": 5, "endIndex": 6 },
                    { "kind": "highlighted", "content": "a apple", "startIndex": 6, "endIndex": 13 },
                    { "kind": "plain", "content": ".", "startIndex": 13, "endIndex": 14 }
                  ]
                }
              }
            }
          },
          "400": { "description": "Invalid body or empty text" }
        }
      }
    },
    "/v1/render": {
      "post": {
        "summary": "Render segments",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/RenderRequest" } } } },
        "responses": { "200": { "description": "Segments covering the whole text" } }
      }
    },
    "/v1/apply": {
      "post": {
        "summary": "Apply one correction",
        "description": "Pending corrections after the applied span are shifted by the change in length. Applying a span that is not pending is a no-op.",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ApplyRequest" } } } },
        "responses": { "200": { "description": "New text and remaining corrections", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ApplyResponse" } } } } }
      }
    },
    "/v1/apply-all": {
      "post": {
        "summary": "Apply all corrections",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ApplyAllRequest" } } } },
        "responses": { "200": { "description": "Corrected text; pending set cleared", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ApplyResponse" } } } } }
      }
    },
    "/v1/sessions": {
      "post": {
        "summary": "Create an editing session",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/SessionRequest" } } } },
        "responses": { "201": { "description": "Session view", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/SessionView" } } } } }
      }
    },
    "/v1/sessions/{id}": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string", "format": "uuid" } } ],
      "get": { "summary": "Get session", "responses": { "200": { "description": "Session view" }, "404": { "description": "Unknown or expired session" } } },
      "delete": { "summary": "Delete session", "responses": { "204": { "description": "Deleted" }, "404": { "description": "Unknown session" } } }
    },
    "/v1/sessions/{id}/text": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
      "put": {
        "summary": "Replace the session text",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/SessionRequest" } } } },
        "responses": { "200": { "description": "Session view" } }
      }
    },
    "/v1/sessions/{id}/check": {
      "parameters": [
        { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } },
        { "name": "auto", "in": "query", "schema": { "type": "boolean" }, "description": "Skip texts too short to be worth checking" }
      ],
      "post": {
        "summary": "Check the session text",
        "responses": {
          "200": { "description": "Session view with fresh corrections" },
          "409": { "description": "Text changed while the check was running; result discarded" }
        }
      }
    },
    "/v1/sessions/{id}/apply": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
      "post": {
        "summary": "Apply the pending correction with this span",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Span" } } } },
        "responses": { "200": { "description": "Session view" } }
      }
    },
    "/v1/sessions/{id}/apply-all": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
      "post": { "summary": "Apply all pending corrections", "responses": { "200": { "description": "Session view" } } }
    },
    "/health": {
      "get": {
        "summary": "Health",
        "responses": { "200": { "description": "Service up", "content": { "application/json": { "example": { "status": "ok", "service": "spellfix" } } } } }
      }
    },
    "/metrics": {
      "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "Exposition format" } } }
    }
  },
  "components": {
    "schemas": {
      "CheckRequest": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "text":    { "type": "string" },
          "words":   { "type": "array", "items": { "type": "string" }, "description": "Words that must never be flagged" },
          "dict":    { "$ref": "#/components/schemas/Dict" },
          "timeout": { "type": "integer", "description": "Seconds; default 180" }
        }
      },
      "Dict": {
        "type": "object",
        "properties": { "words": { "type": "array", "items": { "type": "string" } } }
      },
      "Correction": {
        "type": "object",
        "properties": {
          "original":    { "type": "string" },
          "suggestion":  { "type": "string" },
          "startIndex":  { "type": "integer" },
          "endIndex":    { "type": "integer" },
          "explanation": { "type": "string" },
          "distance":    { "type": "integer", "description": "Levenshtein(original, suggestion)" }
        }
      },
      "Span": {
        "type": "object",
        "properties": { "startIndex": { "type": "integer" }, "endIndex": { "type": "integer" } }
      },
      "Segment": {
        "type": "object",
        "properties": {
          "kind":       { "type": "string", "enum": ["plain", "highlighted"] },
          "content":    { "type": "string" },
          "startIndex": { "type": "integer" },
          "endIndex":   { "type": "integer" },
          "correction": { "$ref": "#/components/schemas/Correction" }
        }
      },
      "Failure": {
        "type": "object",
        "properties": {
          "kind":      { "type": "string", "enum": ["unavailable", "rate_limited", "malformed"] },
          "provider":  { "type": "string" },
          "message":   { "type": "string" },
          "retryable": { "type": "boolean" }
        }
      },
      "CheckResponse": {
        "type": "object",
        "properties": {
          "original":      { "type": "string" },
          "correctedText": { "type": "string" },
          "editDistance":  { "type": "integer" },
          "charCount":     { "type": "integer" },
          "chunkCount":    { "type": "integer" },
          "errorCount":    { "type": "integer" },
          "degraded":      { "type": "boolean" },
          "failure":       { "$ref": "#/components/schemas/Failure" },
          "corrections":   { "type": "array", "items": { "$ref": "#/components/schemas/Correction" } },
          "segments":      { "type": "array", "items": { "$ref": "#/components/schemas/Segment" } }
        }
      },
      "RenderRequest": {
        "type": "object",
        "properties": {
          "text":        { "type": "string" },
          "corrections": { "type": "array", "items": { "$ref": "#/components/schemas/Correction" } }
        }
      },
      "ApplyRequest": {
        "type": "object",
        "properties": {
          "text":       { "type": "string" },
          "correction": { "$ref": "#/components/schemas/Correction" },
          "pending":    { "type": "array", "items": { "$ref": "#/components/schemas/Correction" } }
        }
      },
      "ApplyAllRequest": {
        "type": "object",
        "properties": {
          "correctedText": { "type": "string" },
          "pending":       { "type": "array", "items": { "$ref": "#/components/schemas/Correction" } }
        }
      },
      "ApplyResponse": {
        "type": "object",
        "properties": {
          "text":      { "type": "string" },
          "remaining": { "type": "array", "items": { "$ref": "#/components/schemas/Correction" } },
          "applied":   { "type": "boolean" },
          "message":   { "type": "string" },
          "segments":  { "type": "array", "items": { "$ref": "#/components/schemas/Segment" } }
        }
      },
      "SessionRequest": {
        "type": "object",
        "properties": {
          "text":  { "type": "string" },
          "words": { "type": "array", "items": { "type": "string" } }
        }
      },
      "SessionView": {
        "type": "object",
        "properties": {
          "id":            { "type": "string" },
          "revision":      { "type": "integer" },
          "text":          { "type": "string" },
          "correctedText": { "type": "string" },
          "corrections":   { "type": "array", "items": { "$ref": "#/components/schemas/Correction" } },
          "segments":      { "type": "array", "items": { "$ref": "#/components/schemas/Segment" } },
          "degraded":      { "type": "boolean" },
          "failure":       { "$ref": "#/components/schemas/Failure" },
          "message":       { "type": "string" }
        }
      }
    }
  }
}`

const redocHTML = `<!DOCTYPE html>
<html>
<head>
  <title>spellfix API Docs</title>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <link href="https://fonts.googleapis.com/css?family=Montserrat:300,400,700|Roboto:300,400,700" rel="stylesheet">
  <style>body { margin: 0; padding: 0; }</style>
</head>
<body>
  <redoc spec-url="/openapi.json" expand-responses="200" hide-download-button></redoc>
  <script src="https://cdn.jsdelivr.net/npm/redoc@latest/bundles/redoc.standalone.js"></script>
</body>
</html>`
