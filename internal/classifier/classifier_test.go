package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/spyable/internal/models"
)

func completion(typeText string) *models.ParameterModel {
	return &models.ParameterModel{InternalName: "completion", ExternalName: "completion", Type: typeText}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		method models.MethodModel
		want   string
	}{
		{"sync", models.MethodModel{Name: "ping", ReturnType: models.VoidType}, "sync"},
		{"sync value", models.MethodModel{Name: "count", ReturnType: "Int"}, "sync"},
		{"completion", models.MethodModel{Name: "load", ReturnType: models.VoidType, CompletionParameter: completion("@escaping (Bool) -> Void")}, "completion"},
		{"async", models.MethodModel{Name: "fetch", ReturnType: "User", IsAsynchronous: true}, "async"},
		{"async throwing", models.MethodModel{Name: "fetch", ReturnType: "User", IsAsynchronous: true, IsThrowing: true}, "async(throwing)"},
		{"stream never", models.MethodModel{Name: "updates", ReturnType: "AnyPublisher<Message, Never>"}, "stream(never)"},
		{"stream failable", models.MethodModel{Name: "updates", ReturnType: "AnyPublisher<Message, APIError>"}, "stream(failable)"},
		{"stream single argument", models.MethodModel{Name: "values", ReturnType: "some Publisher<Int>"}, "stream(never)"},
		{"completion wins over async", models.MethodModel{Name: "both", IsAsynchronous: true, CompletionParameter: completion("@escaping () -> Void")}, "completion"},
		{"async wins over stream", models.MethodModel{Name: "later", IsAsynchronous: true, ReturnType: "AnyPublisher<Int, Never>"}, "async"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.method).String())
		})
	}
}

func TestClassifyMethodShapes(t *testing.T) {
	c := ClassifyMethod(models.MethodModel{
		Name:                "fetch",
		ReturnType:          models.VoidType,
		CompletionParameter: completion("@escaping (Result<String, NetworkError>) -> Void"),
	})
	assert.Equal(t, models.ResultShape{Success: "String", Failure: "NetworkError", Found: true}, c.Result)

	c = ClassifyMethod(models.MethodModel{Name: "load", ReturnType: "Data", IsAsynchronous: true})
	assert.Equal(t, "Never", c.Result.Failure)
	assert.Equal(t, "Data", c.Result.Success)

	c = ClassifyMethod(models.MethodModel{Name: "load", ReturnType: "Data", IsAsynchronous: true, IsThrowing: true})
	assert.Equal(t, "Error", c.Result.Failure)

	c = ClassifyMethod(models.MethodModel{Name: "items", ReturnType: "AnyPublisher<[Item], Never>"})
	assert.Equal(t, "[Item]", c.Stream.Output)
	assert.True(t, c.Convention.FailureIsNever)
}

func TestClassifyAllKeepsOrder(t *testing.T) {
	out := ClassifyAll([]models.MethodModel{{Name: "a"}, {Name: "b", IsAsynchronous: true}})
	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Method.Name)
	assert.Equal(t, models.AsynchronousAwaitable, out[1].Convention.Kind)
}
