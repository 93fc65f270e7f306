package node

import (
	"github.com/lioia/sparse-pagerank/pkg/pagerank"
	"google.golang.org/protobuf/types/known/structpb"
)

// Wire form of an outcome, shared by the gRPC service and the result queue
func OutcomeToStruct(o Outcome) *structpb.Struct {
	ranks := make([]*structpb.Value, 0, len(o.Ranks))
	for _, r := range o.Ranks {
		ranks = append(ranks, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"name":  structpb.NewStringValue(r.Name),
				"score": structpb.NewNumberValue(r.Score),
			},
		}))
	}
	s := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"iterations": structpb.NewNumberValue(float64(o.Iterations)),
			"converged":  structpb.NewBoolValue(o.Converged),
			"mass":       structpb.NewNumberValue(o.Mass),
			"ranks":      structpb.NewListValue(&structpb.ListValue{Values: ranks}),
		},
	}
	if o.Error != "" {
		s.Fields["error"] = structpb.NewStringValue(o.Error)
	}
	return s
}

func OutcomeFromStruct(s *structpb.Struct) Outcome {
	fields := s.GetFields()
	o := Outcome{
		Iterations: int(fields["iterations"].GetNumberValue()),
		Converged:  fields["converged"].GetBoolValue(),
		Mass:       fields["mass"].GetNumberValue(),
		Error:      fields["error"].GetStringValue(),
	}
	for _, v := range fields["ranks"].GetListValue().GetValues() {
		rank := v.GetStructValue().GetFields()
		o.Ranks = append(o.Ranks, pagerank.Rank{
			Name:  rank["name"].GetStringValue(),
			Score: rank["score"].GetNumberValue(),
		})
	}
	return o
}
