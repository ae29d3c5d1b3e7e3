/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reviewagent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chainguard.dev/quickreview/agents/decider/decidertest"
	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/provider/providertest"
	"chainguard.dev/quickreview/review"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPipeline(t *testing.T) {
	fetchErr := errors.New("not found")
	postErr := errors.New("forbidden")

	tests := []struct {
		name      string
		fake      *providertest.Fake
		steps     []decidertest.Step
		wantErr   error
		wantText  string
		published int
	}{{
		name:      "success",
		fake:      &providertest.Fake{Bundle: testBundle},
		steps:     []decidertest.Step{retrieve("c1", "diff"), submit("c2", "Looks good.")},
		published: 1,
	}, {
		name:     "fetch failure",
		fake:     &providertest.Fake{FetchErrs: []error{fetchErr}},
		steps:    []decidertest.Step{submit("c1", "unused")},
		wantErr:  ErrFetch,
		wantText: "fetch: github fetch: not found",
	}, {
		name:     "no submission",
		fake:     &providertest.Fake{Bundle: testBundle},
		steps:    []decidertest.Step{decidertest.Answer("fine")},
		wantErr:  ErrReview,
		wantText: "review: review agent did not call submit_review",
	}, {
		name:     "publish failure",
		fake:     &providertest.Fake{Bundle: testBundle, PublishErrs: []error{postErr}},
		steps:    []decidertest.Step{submit("c1", "Looks good.")},
		wantErr:  ErrPost,
		wantText: "post: github publish: forbidden",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(decidertest.New(tt.steps...))
			require.NoError(t, err)
			p, err := NewPipeline(tt.fake, r)
			require.NoError(t, err)

			got, err := p.Run(context.Background(), testID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run error: got = %v, wanted %v", err, tt.wantErr)
				}
				if err.Error() != tt.wantText {
					t.Errorf("Run error text: got = %q, wanted = %q", err.Error(), tt.wantText)
				}
			} else {
				require.NoError(t, err)
				want := review.Verdict{Summary: "Looks good.", LineComments: []review.LineComment{}}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("verdict mismatch (-want, +got):\n%s", diff)
				}
			}
			if n := len(tt.fake.Published()); n != tt.published {
				t.Errorf("published: got = %d, wanted = %d", n, tt.published)
			}
		})
	}
}

func TestPipelineStageErrorsAreDistinct(t *testing.T) {
	r, err := New(decidertest.New(submit("c1", "x")))
	require.NoError(t, err)
	p, err := NewPipeline(&providertest.Fake{FetchErrs: []error{errors.New("boom")}}, r)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), testID)
	if errors.Is(err, ErrReview) || errors.Is(err, ErrPost) {
		t.Errorf("fetch failure matched another stage: %v", err)
	}
	var perr *provider.Error
	if !errors.As(err, &perr) || perr.Op != provider.OpFetch {
		t.Errorf("Run error: got = %v, wanted a provider fetch error", err)
	}
	if !strings.HasPrefix(err.Error(), "fetch: ") {
		t.Errorf("Run error text: got = %q", err.Error())
	}
}

func TestNewPipelineValidation(t *testing.T) {
	r, err := New(decidertest.New())
	require.NoError(t, err)
	if _, err := NewPipeline(nil, r); err == nil {
		t.Error("NewPipeline(nil provider): got = nil, wanted error")
	}
	if _, err := NewPipeline(&providertest.Fake{}, nil); err == nil {
		t.Error("NewPipeline(nil reviewer): got = nil, wanted error")
	}
}
