package aws

import (
	"context"
	"errors"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the part of *sns.Client we call.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// maxSMSLength keeps alerts inside a single concatenated SMS.
const maxSMSLength = 300

// SendSMS publishes a transactional SMS and returns the SNS message id.
// Messages are truncated to maxSMSLength runes.
func SendSMS(ctx context.Context, api SNSAPI, phone, message, senderID string) (string, error) {
	if phone == "" {
		return "", errors.New("sms has no phone number")
	}
	if r := []rune(message); len(r) > maxSMSLength {
		message = string(r[:maxSMSLength-1]) + "…"
	}

	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {DataType: awssdk.String("String"), StringValue: awssdk.String("Transactional")},
	}
	if senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType: awssdk.String("String"), StringValue: awssdk.String(senderID),
		}
	}

	out, err := api.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       awssdk.String(phone),
		Message:           awssdk.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return awssdk.ToString(out.MessageId), nil
}
