package mailer

import (
	"errors"
	"testing"

	"github.com/hanzoai/gochimp3"
	"github.com/stretchr/testify/require"
)

func TestIsMemberExists(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "title match",
			err:  &gochimp3.APIError{Status: 400, Title: "Member Exists"},
			want: true,
		},
		{
			name: "detail match",
			err:  &gochimp3.APIError{Status: 400, Title: "Invalid Resource", Detail: "amaka@qybrrlabs.africa is already a list member."},
			want: true,
		},
		{
			name: "already subscribed detail",
			err:  &gochimp3.APIError{Status: 400, Title: "Invalid Resource", Detail: "This contact is already subscribed."},
			want: true,
		},
		{
			name: "wrapped api error",
			err:  errors.Join(errors.New("request failed"), &gochimp3.APIError{Status: 400, Title: "Member Exists"}),
			want: true,
		},
		{
			name: "plain message fallback",
			err:  errors.New("mailchimp: member exists"),
			want: true,
		},
		{
			name: "unrelated api error",
			err:  &gochimp3.APIError{Status: 500, Title: "Internal Error", Detail: "something broke"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, isMemberExists(tc.err))
		})
	}
}
