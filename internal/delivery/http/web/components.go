package web

import "portfolio-backend/internal/domain"

// ContactView is everything the contact page renders.
type ContactView struct {
	Values       domain.FieldValues
	Errors       domain.FieldErrors
	Services     []string
	ContactInfo  []domain.ContactInfo
	Notification *domain.Notification
	CSRFToken    string
	// Sending disables the submit button while a delivery for this session is in flight.
	Sending bool
}

// fieldSpec describes one plain input rendered by inputField in contact.templ.
type fieldSpec struct {
	field       domain.Field
	label       string
	inputType   string
	placeholder string
}

var textFields = []fieldSpec{
	{domain.FieldFirstName, "Firstname", "text", "Firstname"},
	{domain.FieldLastName, "Lastname", "text", "Lastname"},
	{domain.FieldEmail, "Email address", "email", "Email address"},
	{domain.FieldPhone, "Phone number", "tel", "Phone number"},
}

// validateScript posts each changed field to the fragment endpoint and swaps in the
// returned message. It also disables the button while the form is being submitted.
const validateScript = `(function(){
var form=document.getElementById("contact-form");if(!form){return;}
var token=form.querySelector("input[name=csrf_token]").value;
form.querySelectorAll("[data-validate]").forEach(function(el){
el.addEventListener("change",function(){
var body=new URLSearchParams();body.set("value",el.value);body.set("csrf_token",token);
fetch("/contact/validate/"+el.name,{method:"POST",body:body,credentials:"same-origin"}).then(function(r){return r.text();}).then(function(html){
var slot=document.getElementById(el.name+"-error");if(slot){slot.outerHTML=html;}
});});});
form.addEventListener("submit",function(){var b=document.getElementById("submit");b.disabled=true;b.textContent="Sending...";});
})();`

const styles = `body{font-family:system-ui,sans-serif;background:#1c1c22;color:#fff;margin:0}
.contact{display:flex;flex-wrap:wrap;gap:2rem;max-width:72rem;margin:0 auto;padding:3rem 1rem}
.contact-form{flex:1 1 36rem}
.form{background:#27272c;padding:2.5rem;border-radius:0.75rem;display:flex;flex-direction:column;gap:1.5rem}
.form-title{color:#00ff99;margin:0}
.form-grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(14rem,1fr));gap:1.5rem}
.form-field{display:flex;flex-direction:column;gap:0.25rem}
.form-label{font-size:0.875rem;color:rgba(255,255,255,0.6)}
.form-input,.form-textarea{background:#1c1c22;color:#fff;border:1px solid rgba(255,255,255,0.1);border-radius:0.375rem;padding:0.75rem}
.form-input-error{border-color:#ef4444}
.form-error{color:#ef4444;font-size:0.875rem;margin:0;min-height:1.25rem}
.btn{background:#00ff99;color:#1c1c22;border:0;border-radius:9999px;padding:0.75rem 1.5rem;font-weight:600;cursor:pointer;align-self:flex-start}
.btn[disabled]{opacity:0.6;cursor:not-allowed}
.contact-info{list-style:none;padding:0;display:flex;flex-direction:column;gap:2.5rem}
.contact-info-title{color:rgba(255,255,255,0.6);margin:0}
.contact-info-value{margin:0;font-size:1.25rem}
.toast{position:fixed;top:1rem;right:1rem;padding:1rem 1.5rem;border-radius:0.5rem}
.toast-info{background:#064e3b}
.toast-error{background:#7f1d1d}`
