package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/cortex-refactor/internal/refactor"
)

// AddExtractFunctionTool registers the refactor_extract_function tool.
// Tool registrations are composable: each Add function can be combined
// with the others on any MCP server.
func AddExtractFunctionTool(s *server.MCPServer, engine *refactor.Engine) {
	tool := mcp.NewTool(
		"refactor_extract_function",
		mcp.WithDescription("Extract an inclusive 1-based line range of a Python file into a new function. Flow analysis determines parameters, returned variables, and locals. The file is rewritten only if the result re-parses cleanly."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the Python file to refactor")),
		mcp.WithNumber("start_line",
			mcp.Required(),
			mcp.Description("First line of the range to extract (1-based, inclusive)")),
		mcp.WithNumber("end_line",
			mcp.Required(),
			mcp.Description("Last line of the range to extract (1-based, inclusive)")),
		mcp.WithString("function_name",
			mcp.Required(),
			mcp.Description("Name for the extracted function")),
		mcp.WithBoolean("add_return",
			mcp.Description("Append a return statement for computed outputs (default: true)")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		filePath, err := parseStringArg(args, "file_path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := parseStringArg(args, "function_name", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		start := parseIntArg(args, "start_line", 0)
		end := parseIntArg(args, "end_line", 0)
		addReturn := parseBoolArg(args, "add_return", true)

		result, rerr := engine.ExtractFunction(filePath, start, end, name, addReturn)
		if rerr != nil {
			return refactorError(rerr), nil
		}
		return jsonResult(map[string]any{
			"function_name": result.FunctionName,
			"function_text": result.FunctionText,
			"call_site":     result.CallSite,
			"inserted_at":   result.InsertedAt,
			"inputs":        result.Flow.Inputs,
			"outputs":       result.Flow.Outputs,
			"locals":        result.Flow.Locals,
		})
	})
}

// AddInlineFunctionTool registers the refactor_inline_function tool.
func AddInlineFunctionTool(s *server.MCPServer, engine *refactor.Engine) {
	tool := mcp.NewTool(
		"refactor_inline_function",
		mcp.WithDescription("Inline a side-effect-free Python function at every bare call site, substituting arguments into its return expression. Unsafe functions (side effects, multiple returns, generators, recursion) are rejected with the specific reason."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the Python file to refactor")),
		mcp.WithString("function_name",
			mcp.Required(),
			mcp.Description("Name of the function to inline")),
		mcp.WithBoolean("remove_function",
			mcp.Description("Delete the function definition after inlining (default: false)")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		filePath, err := parseStringArg(args, "file_path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := parseStringArg(args, "function_name", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		remove := parseBoolArg(args, "remove_function", false)

		result, rerr := engine.InlineFunction(filePath, name, remove)
		if rerr != nil {
			return refactorError(rerr), nil
		}
		return jsonResult(map[string]any{
			"function_name": result.FunctionName,
			"inlined_count": result.InlinedCount,
			"removed":       result.Removed,
		})
	})
}

// AddMoveMethodTool registers the refactor_move_method tool.
func AddMoveMethodTool(s *server.MCPServer, engine *refactor.Engine) {
	tool := mcp.NewTool(
		"refactor_move_method",
		mcp.WithDescription("Move a method from one Python class to another in the same file, re-indenting it for the destination. Abstract methods and destination name collisions are rejected before any write."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the Python file to refactor")),
		mcp.WithString("source_class",
			mcp.Required(),
			mcp.Description("Class currently defining the method")),
		mcp.WithString("method_name",
			mcp.Required(),
			mcp.Description("Name of the method to move")),
		mcp.WithString("target_class",
			mcp.Required(),
			mcp.Description("Class to move the method into")),
		mcp.WithString("instance_name",
			mcp.Description("Receiver attribute holding the target instance (default: snake_case of target class)")),
		mcp.WithBoolean("update_call_sites",
			mcp.Description("Rewrite calls inside the source class to go through the instance attribute (default: false)")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		filePath, err := parseStringArg(args, "file_path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sourceClass, err := parseStringArg(args, "source_class", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		methodName, err := parseStringArg(args, "method_name", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		targetClass, err := parseStringArg(args, "target_class", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		instance, _ := parseStringArg(args, "instance_name", false)

		result, rerr := engine.MoveMethod(filePath, refactor.MoveMethodOptions{
			SourceClass:  sourceClass,
			MethodName:   methodName,
			TargetClass:  targetClass,
			InstanceName: instance,
			UpdateCalls:  parseBoolArg(args, "update_call_sites", false),
		})
		if rerr != nil {
			return refactorError(rerr), nil
		}
		return jsonResult(map[string]any{
			"method_name":        result.MethodName,
			"source_class":       result.SourceClass,
			"target_class":       result.TargetClass,
			"call_sites_updated": result.CallSitesUpdated,
			"placeholder_added":  result.PlaceholderAdded,
		})
	})
}

// AddInjectDependenciesTool registers the refactor_inject_dependencies tool.
func AddInjectDependenciesTool(s *server.MCPServer, engine *refactor.Engine) {
	tool := mcp.NewTool(
		"refactor_inject_dependencies",
		mcp.WithDescription("Convert hardcoded dependency instantiations (self.attr = Type(...)) in a Python class constructor into constructor parameters, and generate a companion dependency container with lazy accessors and a factory."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the Python file to refactor")),
		mcp.WithString("class_name",
			mcp.Required(),
			mcp.Description("Class whose constructor should receive its dependencies")),
		mcp.WithArray("dependency_names",
			mcp.Description("Attribute names to inject; empty injects every detected dependency")),
		mcp.WithBoolean("keep_defaults",
			mcp.Description("Make the new parameters optional with lazy fallback to the original instantiation (default: false)")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		filePath, err := parseStringArg(args, "file_path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		className, err := parseStringArg(args, "class_name", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		depNames := parseStringArrayArg(args, "dependency_names")

		result, rerr := engine.InjectDependencies(filePath, className, depNames, parseBoolArg(args, "keep_defaults", false))
		if rerr != nil {
			return refactorError(rerr), nil
		}
		return jsonResult(map[string]any{
			"class_name":     result.ClassName,
			"injected":       result.Injected,
			"container_name": result.ContainerName,
			"container_text": result.ContainerText,
		})
	})
}

// refactorError renders a typed engine failure as a tool error so agents
// see the stable kind plus the human-readable reason.
func refactorError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(payload map[string]any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
