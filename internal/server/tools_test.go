package server

import (
	"encoding/json"
	"testing"
)

// toolByName indexes the tool table.
func toolByName(t *testing.T) map[string]Tool {
	t.Helper()
	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		if _, dup := toolMap[tool.Name]; dup {
			t.Fatalf("tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}
	return toolMap
}

func TestGetToolDefinitions(t *testing.T) {
	expectedTools := []string{
		"image_load",
		"region_tree",
		"region_at",
		"region_children",
		"region_mask",
		"region_crop",
		"region_color",
		"region_label_map",
		"cache_clear",
	}

	toolMap := toolByName(t)
	if len(toolMap) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(toolMap), len(expectedTools))
	}
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || len(props) == 0 {
				t.Fatal("InputSchema missing properties")
			}

			// Every required parameter must be described.
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, r := range required {
					if _, ok := props[r]; !ok {
						t.Errorf("required parameter %s has no schema", r)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredParameters(t *testing.T) {
	tests := []struct {
		tool     string
		required []string
	}{
		{"image_load", []string{"path"}},
		{"region_tree", []string{"path"}},
		{"region_at", []string{"path", "x", "y"}},
		{"region_children", []string{"path", "index"}},
		{"region_mask", []string{"path", "index"}},
		{"region_crop", []string{"path", "index"}},
		{"region_color", []string{"path", "index"}},
		{"region_label_map", []string{"path"}},
	}

	toolMap := toolByName(t)
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			got, ok := toolMap[tt.tool].InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			if len(got) != len(tt.required) {
				t.Fatalf("required: got %v, want %v", got, tt.required)
			}
			for i := range got {
				if got[i] != tt.required[i] {
					t.Errorf("required[%d]: got %s, want %s", i, got[i], tt.required[i])
				}
			}
		})
	}

	if _, ok := toolMap["cache_clear"].InputSchema["required"]; ok {
		t.Error("cache_clear should have no required parameters")
	}
}

func TestToolDefinitions_TreeSettings(t *testing.T) {
	settings := []string{"max_level", "order", "invert", "blur_radius", "keep_unchanged"}

	toolMap := toolByName(t)
	for _, name := range []string{"region_tree", "region_at", "region_children", "region_mask", "region_crop", "region_color", "region_label_map"} {
		props := toolMap[name].InputSchema["properties"].(map[string]interface{})
		for _, s := range settings {
			if _, ok := props[s]; !ok {
				t.Errorf("%s: missing tree setting %s", name, s)
			}
		}
	}

	order := toolMap["region_tree"].InputSchema["properties"].(map[string]interface{})["order"].(map[string]interface{})
	enum, ok := order["enum"].([]string)
	if !ok || len(enum) != 2 || enum[0] != "descending" || enum[1] != "ascending" {
		t.Errorf("order enum: got %v", order["enum"])
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	tests := []struct {
		tool  string
		param string
		want  interface{}
	}{
		{"region_tree", "limit", defaultRegionLimit},
		{"region_mask", "scale", 1},
		{"region_crop", "scale", 1.0},
		{"region_crop", "padding", 0},
		{"region_crop", "mask_outside", false},
		{"region_color", "count", 5},
		{"region_label_map", "format", "png"},
	}

	toolMap := toolByName(t)
	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.param, func(t *testing.T) {
			props := toolMap[tt.tool].InputSchema["properties"].(map[string]interface{})
			param, ok := props[tt.param].(map[string]interface{})
			if !ok {
				t.Fatalf("parameter %s not found", tt.param)
			}
			if param["default"] != tt.want {
				t.Errorf("default: got %v, want %v", param["default"], tt.want)
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "tools/list"})

	if resp.ID != 7 || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// The tool list must survive JSON encoding for the client.
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	var decoded struct {
		Result struct {
			Tools []Tool `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(decoded.Result.Tools) != len(GetToolDefinitions()) {
		t.Errorf("decoded %d tools, want %d", len(decoded.Result.Tools), len(GetToolDefinitions()))
	}
}
