package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/jhump/protoreflect/dynamic/grpcdynamic"
	"github.com/jhump/protoreflect/grpcreflect"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// Invoker calls the Cue backend's unary RPCs through server reflection
// and dynamic messages, so the client carries no generated stubs and
// follows backend schema changes without a rebuild.
type Invoker struct {
	conn   *grpc.ClientConn
	logger *slog.Logger
	stub   grpcdynamic.Stub
}

// NewInvoker creates a dynamic invoker for the given connection.
func NewInvoker(conn *grpc.ClientConn, logger *slog.Logger) *Invoker {
	return &Invoker{
		conn:   conn,
		logger: logger,
		stub:   grpcdynamic.NewStub(conn),
	}
}

// ResolveMethod looks up a unary method descriptor via server
// reflection, with fallback to locally registered well-known types.
func (i *Invoker) ResolveMethod(ctx context.Context, serviceName, methodName string) (*desc.MethodDescriptor, error) {
	refClient := grpcreflect.NewClientAuto(ctx, i.conn)
	defer refClient.Reset()

	refClient.AllowFallbackResolver(protoregistry.GlobalFiles, protoregistry.GlobalTypes)
	refClient.AllowMissingFileDescriptors()

	serviceDesc, err := refClient.ResolveService(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service %s: %w", serviceName, err)
	}

	methodDesc := serviceDesc.FindMethodByName(methodName)
	if methodDesc == nil {
		return nil, fmt.Errorf("method %s not found in service %s", methodName, serviceName)
	}
	if methodDesc.IsClientStreaming() || methodDesc.IsServerStreaming() {
		return nil, fmt.Errorf("method %s is streaming, expected unary", methodName)
	}
	return methodDesc, nil
}

// InvokeUnary calls a unary RPC with a JSON request body and returns
// the JSON response body.
func (i *Invoker) InvokeUnary(
	ctx context.Context,
	methodDesc *desc.MethodDescriptor,
	jsonRequest string,
	md metadata.MD,
) (string, error) {
	methodName := methodDesc.GetFullyQualifiedName()
	i.logger.Debug("invoking unary RPC", slog.String("method", methodName))

	reqMsg := dynamic.NewMessage(methodDesc.GetInputType())
	if err := reqMsg.UnmarshalJSON([]byte(jsonRequest)); err != nil {
		i.logger.Error("failed to unmarshal request JSON",
			slog.String("method", methodName),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("invalid request JSON: %w", err)
	}

	if len(md) > 0 {
		ctx = metadata.NewOutgoingContext(ctx, md)
	}

	respMsg, err := i.stub.InvokeRpc(ctx, methodDesc, reqMsg)
	if err != nil {
		i.logger.Error("RPC invocation failed",
			slog.String("method", methodName),
			slog.Any("error", err),
		)
		return "", err
	}

	jsonBytes, err := respMsg.(*dynamic.Message).MarshalJSON()
	if err != nil {
		i.logger.Error("failed to marshal response to JSON",
			slog.String("method", methodName),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("failed to format response: %w", err)
	}

	i.logger.Debug("unary RPC completed",
		slog.String("method", methodName),
		slog.Int("responseBytes", len(jsonBytes)),
	)
	return string(jsonBytes), nil
}
