package authnet

// Wire payload types for the Authorize.Net JSON API. Each request is an
// envelope object with a single operation-named key.

type merchantAuthentication struct {
	Name           string `json:"name"`
	TransactionKey string `json:"transactionKey"`
}

type messagePayload struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

type messagesPayload struct {
	ResultCode string           `json:"resultCode"`
	Message    []messagePayload `json:"message"`
}

type creditCardPayload struct {
	CardNumber     string `json:"cardNumber"`
	ExpirationDate string `json:"expirationDate"`
	CardCode       string `json:"cardCode,omitempty"`
}

type paymentPayload struct {
	CreditCard *creditCardPayload `json:"creditCard,omitempty"`
}

type billToPayload struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Company   string `json:"company,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
}

type paymentProfilePayload struct {
	CustomerType string         `json:"customerType,omitempty"`
	BillTo       *billToPayload `json:"billTo,omitempty"`
	Payment      paymentPayload `json:"payment"`
}

// authenticateTest

type authenticateTestEnvelope struct {
	AuthenticateTestRequest authenticateTestRequest `json:"authenticateTestRequest"`
}

type authenticateTestRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
}

type authenticateTestResponse struct {
	Messages messagesPayload `json:"messages"`
}

// createTransaction

type createTransactionEnvelope struct {
	CreateTransactionRequest createTransactionRequest `json:"createTransactionRequest"`
}

type createTransactionRequest struct {
	MerchantAuthentication merchantAuthentication    `json:"merchantAuthentication"`
	TransactionRequest     transactionRequestPayload `json:"transactionRequest"`
}

type transactionRequestPayload struct {
	TransactionType string             `json:"transactionType"`
	Amount          string             `json:"amount,omitempty"`
	Payment         *paymentPayload    `json:"payment,omitempty"`
	Profile         *profileRefPayload `json:"profile,omitempty"`
	Order           *orderPayload      `json:"order,omitempty"`
	RefTransID      string             `json:"refTransId,omitempty"`
	CustomerIP      string             `json:"customerIP,omitempty"`
}

type profileRefPayload struct {
	CustomerProfileID string                   `json:"customerProfileId"`
	PaymentProfile    paymentProfileRefPayload `json:"paymentProfile"`
}

type paymentProfileRefPayload struct {
	PaymentProfileID string `json:"paymentProfileId"`
}

type orderPayload struct {
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
}

type transactionErrorPayload struct {
	ErrorCode string `json:"errorCode"`
	ErrorText string `json:"errorText"`
}

type createTransactionResponse struct {
	TransactionResponse struct {
		ResponseCode  string                    `json:"responseCode"`
		AuthCode      string                    `json:"authCode"`
		AvsResultCode string                    `json:"avsResultCode"`
		TransID       string                    `json:"transId"`
		Errors        []transactionErrorPayload `json:"errors"`
	} `json:"transactionResponse"`
	Messages messagesPayload `json:"messages"`
}

// createCustomerProfile

type createCustomerProfileEnvelope struct {
	CreateCustomerProfileRequest createCustomerProfileRequest `json:"createCustomerProfileRequest"`
}

type createCustomerProfileRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	Profile                customerProfilePayload `json:"profile"`
}

type customerProfilePayload struct {
	MerchantCustomerID string                  `json:"merchantCustomerId"`
	Email              string                  `json:"email,omitempty"`
	PaymentProfiles    []paymentProfilePayload `json:"paymentProfiles,omitempty"`
}

type createCustomerProfileResponse struct {
	CustomerProfileID            string          `json:"customerProfileId"`
	CustomerPaymentProfileIDList []string        `json:"customerPaymentProfileIdList"`
	Messages                     messagesPayload `json:"messages"`
}

// createCustomerPaymentProfile

type createCustomerPaymentProfileEnvelope struct {
	CreateCustomerPaymentProfileRequest createCustomerPaymentProfileRequest `json:"createCustomerPaymentProfileRequest"`
}

type createCustomerPaymentProfileRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID      string                 `json:"customerProfileId"`
	PaymentProfile         paymentProfilePayload  `json:"paymentProfile"`
}

type createCustomerPaymentProfileResponse struct {
	CustomerProfileID        string          `json:"customerProfileId"`
	CustomerPaymentProfileID string          `json:"customerPaymentProfileId"`
	Messages                 messagesPayload `json:"messages"`
}

// deleteCustomerPaymentProfile

type deleteCustomerPaymentProfileEnvelope struct {
	DeleteCustomerPaymentProfileRequest deleteCustomerPaymentProfileRequest `json:"deleteCustomerPaymentProfileRequest"`
}

type deleteCustomerPaymentProfileRequest struct {
	MerchantAuthentication   merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID        string                 `json:"customerProfileId"`
	CustomerPaymentProfileID string                 `json:"customerPaymentProfileId"`
}

type deleteCustomerPaymentProfileResponse struct {
	Messages messagesPayload `json:"messages"`
}
