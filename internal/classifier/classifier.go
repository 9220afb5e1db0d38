// Package classifier decides the calling convention of each extracted method.
package classifier

import (
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/shapes"
)

// Classify returns the calling convention of a method. The first matching
// rule wins: a completion parameter, then async, then a stream-shaped return.
func Classify(method models.MethodModel) models.CallingConvention {
	switch {
	case method.CompletionParameter != nil:
		return models.CallingConvention{Kind: models.CompletionCallback}
	case method.IsAsynchronous:
		return models.CallingConvention{Kind: models.AsynchronousAwaitable, Throwing: method.IsThrowing}
	case shapes.IsStreamType(method.ReturnType):
		stream := shapes.ExtractStreamShape(method.ReturnType)
		return models.CallingConvention{Kind: models.StreamProducing, FailureIsNever: stream.IsNever()}
	default:
		return models.CallingConvention{Kind: models.Synchronous}
	}
}

// ClassifyMethod classifies a method and extracts the shapes its emitter needs
func ClassifyMethod(method models.MethodModel) models.ClassifiedMethod {
	classified := models.ClassifiedMethod{Method: method, Convention: Classify(method)}

	switch classified.Convention.Kind {
	case models.CompletionCallback:
		classified.Result = shapes.ExtractResultShape(method.CompletionParameter.Type)
	case models.AsynchronousAwaitable:
		failure := shapes.NeverFailure
		if method.IsThrowing {
			failure = shapes.DefaultFailure
		}
		classified.Result = models.ResultShape{Success: method.ReturnType, Failure: failure, Found: true}
	case models.StreamProducing:
		classified.Stream = shapes.ExtractStreamShape(method.ReturnType)
	}
	return classified
}

// ClassifyAll classifies methods in order
func ClassifyAll(methods []models.MethodModel) []models.ClassifiedMethod {
	out := make([]models.ClassifiedMethod, 0, len(methods))
	for _, m := range methods {
		out = append(out, ClassifyMethod(m))
	}
	return out
}
